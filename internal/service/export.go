package service

import (
	"context"
	"strings"
	"time"

	"github.com/decanter-app/decanter/internal/tournament"
	"github.com/decanter-app/decanter/internal/utils"
	"github.com/decanter-app/decanter/internal/volunteer"
)

var exportHeader = []string{
	"Timestamp", "Email", "Name", "Education", "Bio",
	"Preference 1", "Preference 2", "Preference 3", "Preference 4",
	"Experience",
}

// ExportApplicationsCSV renders every submitted application of the
// tournament, oldest first. Missing profile values export as empty cells.
func (s *TournamentService) ExportApplicationsCSV(ctx context.Context, slug string) (string, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return "", err
	}

	t, err := s.requireAdmin(ctx, slug, claims.Sub)
	if err != nil {
		return "", err
	}

	submissions, err := s.apps.ListSubmissions(ctx, t.ID, 0)
	if err != nil {
		return "", storeError(ctx, "Error retrieving applications", err)
	}
	return applicationsCSV(t.ApplicationFields, submissions), nil
}

func applicationsCSV(fields tournament.ApplicationFields, submissions []volunteer.Submission) string {
	header := append([]string{}, exportHeader...)
	for _, f := range fields {
		header = append(header, f.Prompt)
	}

	rows := make([]string, 0, len(submissions)+1)
	rows = append(rows, csvRow(header))
	for _, sub := range submissions {
		row := []string{
			sub.UpdatedAt.UTC().Format(time.RFC3339),
			utils.OrZero(sub.Email),
			utils.OrZero(sub.Name),
			utils.OrZero(sub.Education),
			utils.OrZero(sub.Bio),
		}
		row = append(row, sub.Preferences[:]...)
		row = append(row, utils.OrZero(sub.Experience))
		for _, f := range fields {
			row = append(row, sub.Responses[f.ID])
		}
		rows = append(rows, csvRow(row))
	}
	return strings.Join(rows, "\n")
}

// csvRow quotes every cell, doubling any quotes inside it.
func csvRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
