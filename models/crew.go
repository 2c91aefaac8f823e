package models

import "time"

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" dynamodbav:"lat"`
	Lng float64 `json:"lng" dynamodbav:"lng"`
}

type Crew struct {
	ID        int       `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Skills    []string  `json:"skills" dynamodbav:"skills"`
	Zone      string    `json:"zone,omitempty" dynamodbav:"zone,omitempty"`
	Position  *GeoPoint `json:"position,omitempty" dynamodbav:"position,omitempty"`
	Phone     string    `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	Email     string    `json:"email,omitempty" dynamodbav:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// HasSkill reports whether the crew carries the given tag. Tags are case-sensitive.
func (c *Crew) HasSkill(skill string) bool {
	for _, s := range c.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the crew.
func (c *Crew) Clone() *Crew {
	if c == nil {
		return nil
	}
	out := *c
	if c.Skills != nil {
		out.Skills = append([]string(nil), c.Skills...)
	}
	out.Position = c.Position.Clone()
	return &out
}

// Clone returns a copy of the point, nil stays nil.
func (p *GeoPoint) Clone() *GeoPoint {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

type CreateCrewRequest struct {
	Name   string   `json:"name" validate:"required,min=2,max=100"`
	Skills []string `json:"skills" validate:"omitempty,dive,required"`
	Zone   string   `json:"zone" validate:"omitempty,max=100"`
	Lat    *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng    *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
	Phone  string   `json:"phone" validate:"omitempty,max=32"`
	Email  string   `json:"email" validate:"omitempty,email"`
}
