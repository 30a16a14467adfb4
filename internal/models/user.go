package models

import (
	"encoding/json"
	"time"
)

// User represents a member account with its public profile.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // Never expose this to the client

	Headline       string `json:"headline,omitempty"`
	About          string `json:"about,omitempty"`
	Location       string `json:"location,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	BannerImg      string `json:"bannerImg,omitempty"`

	// JSON string fields for DB storage
	SkillsJSON     string `json:"-"`
	ExperienceJSON string `json:"-"`
	EducationJSON  string `json:"-"`

	// Slice fields for API interaction
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Experience is one entry of a user's work history.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education is one entry of a user's education history.
type Education struct {
	School       string `json:"school"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartYear    int    `json:"startYear,omitempty"`
	EndYear      int    `json:"endYear,omitempty"`
}

// PrepareForSave marshals the slice fields into their respective JSON strings
// for DB storage.
func (u *User) PrepareForSave() {
	skillsBytes, _ := json.Marshal(u.Skills)
	u.SkillsJSON = string(skillsBytes)

	expBytes, _ := json.Marshal(u.Experience)
	u.ExperienceJSON = string(expBytes)

	eduBytes, _ := json.Marshal(u.Education)
	u.EducationJSON = string(eduBytes)
}

// PrepareForAPI unmarshals the JSON string fields into their respective slice
// fields for API responses.
func (u *User) PrepareForAPI() {
	if u.SkillsJSON != "" {
		json.Unmarshal([]byte(u.SkillsJSON), &u.Skills)
	}
	if u.ExperienceJSON != "" {
		json.Unmarshal([]byte(u.ExperienceJSON), &u.Experience)
	}
	if u.EducationJSON != "" {
		json.Unmarshal([]byte(u.EducationJSON), &u.Education)
	}
}

// ProfileUpdate carries the allow-listed profile fields of an update request.
// Anything a client submits outside this set is discarded at decode time.
// A nil pointer (or nil slice) means the field was not submitted.
type ProfileUpdate struct {
	Name           *string      `json:"name"`
	Username       *string      `json:"username"`
	Headline       *string      `json:"headline"`
	About          *string      `json:"about"`
	Location       *string      `json:"location"`
	ProfilePicture *string      `json:"profilePicture"`
	BannerImg      *string      `json:"bannerImg"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
}
