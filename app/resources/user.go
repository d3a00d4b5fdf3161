// Package resources turns models into the JSON shapes of the public API.
package resources

import (
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

// User is the full profile, as the users endpoints return it.
func User(u models.UserProfile) resource.Map {
	return resource.Map{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"age":          u.Age,
		"phone_number": u.PhoneNumber,
		"status":       u.Status,
		"role":         u.Role,
		"is_active":    u.IsActive,
		"date_joined":  resource.FormatTime(u.CreatedAt, resource.DateTime),
	}
}

// Person is the short name-only form embedded in products, ratings and reviews.
func Person(u models.UserProfile) resource.Map {
	return resource.Map{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

// Registered is the body of a successful registration.
func Registered(u models.UserProfile, access, refresh string) resource.Map {
	return resource.Map{
		"user": resource.Map{
			"username": u.Username,
			"email":    u.Email,
		},
		"access":  access,
		"refresh": refresh,
	}
}
