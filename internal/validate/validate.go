// Package validate holds the request schemas and the rules applied to them
// before anything touches the store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"github.com/decanter-app/decanter/internal/apperr"
	"github.com/decanter-app/decanter/internal/catalog"
	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/volunteer"
)

// TournamentInput is the create/update payload. ID is nil on create.
type TournamentInput struct {
	ID                *uuid.UUID                    `json:"id,omitempty"`
	Name              string                        `json:"name" validate:"required,notblank,max=100"`
	ImageURL          string                        `json:"imageUrl" validate:"omitempty,url,max=2048"`
	WebsiteURL        string                        `json:"websiteUrl" validate:"omitempty,url,max=2048"`
	Location          string                        `json:"location" validate:"required,location"`
	Division          tournament.Division           `json:"division" validate:"required,division"`
	StartDate         tournament.Date               `json:"startDate"`
	EndDate           tournament.Date               `json:"endDate"`
	ApplyDeadline     time.Time                     `json:"applyDeadline"`
	ClosedEarly       bool                          `json:"closedEarly"`
	ApplicationFields []tournament.ApplicationField `json:"applicationFields" validate:"max=50,unique=ID,dive"`
}

func (in *TournamentInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	for i := range in.ApplicationFields {
		in.ApplicationFields[i].Prompt = strings.TrimSpace(in.ApplicationFields[i].Prompt)
	}
}

type ApplicationInput struct {
	TournamentID uuid.UUID         `json:"tournamentId" validate:"required"`
	Mode         volunteer.Mode    `json:"mode" validate:"required,oneof=save submit"`
	Preferences  []string          `json:"preferences"`
	Responses    map[string]string `json:"responses" validate:"max=50,dive,keys,required,max=64,endkeys,max=5000"`
}

type ProfileInput struct {
	Name         string   `json:"name" validate:"required,fullname,max=100"`
	Education    string   `json:"education" validate:"required,notblank,max=200"`
	Bio          string   `json:"bio" validate:"max=2000"`
	Experience   string   `json:"experience" validate:"max=5000"`
	PreferencesB []string `json:"preferencesB"`
	PreferencesC []string `json:"preferencesC"`
}

func (in *ProfileInput) Normalize() {
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Education = strings.TrimSpace(in.Education)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Experience = strings.TrimSpace(in.Experience)
}

var messages = map[string]string{
	"required":         "Required",
	"notblank":         "Required",
	"url":              "Must be a valid URL",
	"location":         "Must be a US state or Online",
	"division":         "Division must be B or C",
	"fullname":         "Please enter your first and last name",
	"unique":           "Application field ids must be unique",
	"enddate":          "End date must be on or after the start date",
	"deadline":         "Application deadline must be on or before the start date",
	"prefs_length":     "Preferences must have exactly 4 slots",
	"prefs_event":      "Invalid event",
	"prefs_gaps":       "Preferences must not have gaps",
	"prefs_duplicates": "Preferences must not contain duplicates",
}

type Validator struct {
	validate *validator.Validate
	catalog  *catalog.Catalog
}

func New(c *catalog.Catalog) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "location", func(fl validator.FieldLevel) bool {
		return tournament.ValidLocation(fl.Field().String())
	})
	mustRegister(v, "division", func(fl validator.FieldLevel) bool {
		return tournament.Division(fl.Field().String()).Valid()
	})
	mustRegister(v, "fullname", func(fl validator.FieldLevel) bool {
		return len(strings.Fields(fl.Field().String())) >= 2
	})

	val := &Validator{validate: v, catalog: c}
	v.RegisterStructValidation(val.tournamentRules, TournamentInput{})
	v.RegisterStructValidation(val.applicationRules, ApplicationInput{})
	v.RegisterStructValidation(val.profileRules, ProfileInput{})
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates one of the input schemas and returns nil when it passes.
func (v *Validator) Struct(s any) apperr.FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := apperr.FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("_", err.Error())
		return fields
	}
	for _, fe := range verrs {
		fields.Add(fieldPath(fe), message(fe))
	}
	return fields
}

// Preferences checks a list against a single division's catalog.
func (v *Validator) Preferences(list []string, d tournament.Division) error {
	return PreferenceList(list, func(event string) bool {
		return v.catalog.Contains(d, event)
	})
}

// anyDivision is used where the division is not known yet.
func (v *Validator) anyDivision(event string) bool {
	return v.catalog.Contains(tournament.DivisionB, event) || v.catalog.Contains(tournament.DivisionC, event)
}

func (v *Validator) tournamentRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(TournamentInput)

	if in.StartDate.IsZero() {
		sl.ReportError(in.StartDate, "startDate", "StartDate", "required", "")
	}
	if in.EndDate.IsZero() {
		sl.ReportError(in.EndDate, "endDate", "EndDate", "required", "")
	}
	if in.ApplyDeadline.IsZero() {
		sl.ReportError(in.ApplyDeadline, "applyDeadline", "ApplyDeadline", "required", "")
	}
	if in.StartDate.IsZero() {
		return
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate.Time) {
		sl.ReportError(in.EndDate, "endDate", "EndDate", "enddate", "")
	}
	if !in.ApplyDeadline.IsZero() && tournament.DateOf(in.ApplyDeadline).After(in.StartDate.Time) {
		sl.ReportError(in.ApplyDeadline, "applyDeadline", "ApplyDeadline", "deadline", "")
	}
}

func (v *Validator) applicationRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(ApplicationInput)
	if err := PreferenceList(in.Preferences, v.anyDivision); err != nil {
		sl.ReportError(in.Preferences, "preferences", "Preferences", preferenceTags[err], "")
	}
}

func (v *Validator) profileRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(ProfileInput)
	if err := v.Preferences(in.PreferencesB, tournament.DivisionB); err != nil {
		sl.ReportError(in.PreferencesB, "preferencesB", "PreferencesB", preferenceTags[err], "")
	}
	if err := v.Preferences(in.PreferencesC, tournament.DivisionC); err != nil {
		sl.ReportError(in.PreferencesC, "preferencesC", "PreferencesC", preferenceTags[err], "")
	}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return "Invalid value"
}
