// Package volunteer stores and searches community volunteers who help
// citizens apply for welfare schemes.
package volunteer

import (
	"fmt"
	"regexp"
	"time"
)

var phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// Coordinates is an optional geolocation for a volunteer.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Volunteer is a registered community volunteer.
type Volunteer struct {
	ID             string       `json:"_id"`
	Name           string       `json:"name"`
	Age            int          `json:"age"`
	Gender         string       `json:"gender"`
	PhoneNo        string       `json:"phoneNo"`
	Language       string       `json:"volunteerLanguage"`
	Location       string       `json:"location"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	AvailableDates []time.Time  `json:"availableDates"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Validate reports the first constraint the volunteer violates, or nil.
func (v *Volunteer) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.Age < 16 {
		return fmt.Errorf("must be at least 16 years old")
	}
	if v.Age > 100 {
		return fmt.Errorf("age cannot exceed 100")
	}
	switch v.Gender {
	case "Male", "Female", "Other":
	default:
		return fmt.Errorf("gender must be Male, Female or Other")
	}
	if !phonePattern.MatchString(v.PhoneNo) {
		return fmt.Errorf("please enter a valid 10-digit phone number")
	}
	if v.Language == "" {
		return fmt.Errorf("language is required")
	}
	if v.Location == "" {
		return fmt.Errorf("location is required")
	}
	return nil
}
