package booking

import (
	"errors"
	"strings"

	"bookflow/internal/domain/user"
)

var (
	ErrContactTitleInvalid = errors.New("booking: contact title must be one of Mr, Ms, Mrs, Dr, Other")
	ErrContactNameRequired = errors.New("booking: contact name is required")
	ErrContactEmailInvalid = errors.New("booking: contact email is invalid")
)

type ContactTitle string

const (
	TitleMr    ContactTitle = "Mr"
	TitleMs    ContactTitle = "Ms"
	TitleMrs   ContactTitle = "Mrs"
	TitleDr    ContactTitle = "Dr"
	TitleOther ContactTitle = "Other"
)

// Contact identifies the person the reservation is held for; it may
// differ from the account owner.
type Contact struct {
	Title ContactTitle
	Name  string
	Email string
}

func (c Contact) Validate() error {
	switch c.Title {
	case TitleMr, TitleMs, TitleMrs, TitleDr, TitleOther:
	default:
		return ErrContactTitleInvalid
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrContactNameRequired
	}
	if !user.ValidEmail(c.Email) {
		return ErrContactEmailInvalid
	}
	return nil
}

func (c Contact) normalized() Contact {
	return Contact{
		Title: c.Title,
		Name:  strings.TrimSpace(c.Name),
		Email: user.NormalizeEmail(c.Email),
	}
}
