package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/labsyncpro/labsync-api/internal/models"
	appErrors "github.com/labsyncpro/labsync-api/pkg/errors"
)

type importUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type userImportRow struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required"`
	Role     string `validate:"required,oneof=ADMIN INSTRUCTOR STUDENT"`
	Password string `validate:"required,min=8"`
}

// ImportService loads user accounts from CSV uploads. Imports run row by
// row: a bad row is recorded and skipped, the rest of the file still lands.
type ImportService struct {
	users     importUserRepository
	maxRows   int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(users importUserRepository, maxRows int, validate *validator.Validate, logger *zap.Logger) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRows <= 0 {
		maxRows = 1000
	}
	return &ImportService{users: users, maxRows: maxRows, validator: validate, logger: logger}
}

// ImportUsers reads a CSV stream with header
// email,full_name,role,password[,class_id] and creates one user per row.
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (*models.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty or unreadable CSV file")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"email", "full_name", "role", "password"} {
		if _, ok := columns[required]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required CSV column %q", required))
		}
	}

	summary := &models.ImportSummary{}
	rowNumber := 1
	for {
		if err := ctx.Err(); err != nil {
			return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "import cancelled")
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		// A parse error is one bad row; any other read error is the stream
		// itself failing and will never clear, so stop instead of spinning.
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read CSV stream")
		}
		rowNumber++
		if summary.Processed >= s.maxRows {
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     rowNumber,
				Message: fmt.Sprintf("row limit of %d reached, remaining rows were not imported", s.maxRows),
			})
			break
		}
		summary.Processed++
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: "malformed CSV row"})
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		row := userImportRow{
			Email:    field("email"),
			FullName: field("full_name"),
			Role:     strings.ToUpper(field("role")),
			Password: field("password"),
		}
		if err := s.validator.Struct(row); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: fmt.Sprintf("invalid row: %v", err)})
			continue
		}

		exists, err := s.users.ExistsByEmail(ctx, row.Email)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: "failed to check for existing account"})
			continue
		}
		if exists {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: fmt.Sprintf("email %s already registered", row.Email)})
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(row.Password), bcrypt.DefaultCost)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: "failed to hash password"})
			continue
		}

		user := &models.User{
			Email:        row.Email,
			PasswordHash: string(hash),
			FullName:     row.FullName,
			Role:         models.UserRole(row.Role),
			Active:       true,
		}
		if classID := field("class_id"); classID != "" {
			user.ClassID = &classID
		}
		if err := s.users.Create(ctx, user); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, models.ImportRowError{Row: rowNumber, Message: "failed to create user"})
			s.logger.Warn("user import row failed", zap.Int("row", rowNumber), zap.Error(err))
			continue
		}
		summary.Successful++
	}

	s.logger.Info("user import finished",
		zap.Int("processed", summary.Processed),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
