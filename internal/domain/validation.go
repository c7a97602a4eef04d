package domain

import "regexp"

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)
	entityRe   = regexp.MustCompile(`^[a-z0-9._ -]{1,128}$`)
)

// Имена приводятся к нижнему регистру на границе HTTP; здесь только проверка.
func ValidUsername(s string) bool { return usernameRe.MatchString(s) }
func ValidEntity(s string) bool   { return entityRe.MatchString(s) }
