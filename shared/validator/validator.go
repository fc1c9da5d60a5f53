package validator

import (
	"cowork/shared/constant"
	"cowork/shared/failure"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMegabyte = 1024 * 1024

var (
	validate *val.Validate

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
)

func validateMimetype(field val.FieldLevel) bool {
	var contentType string

	switch value := field.Field().Interface().(type) {
	case multipart.FileHeader:
		contentType = value.Header.Get(constant.RequestHeaderContentType)
	case string:
		contentType = dataURIContentType(value)
	}

	if contentType == constant.Empty {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

func validateFileSize(field val.FieldLevel) bool {
	var size int64

	switch value := field.Field().Interface().(type) {
	case multipart.FileHeader:
		size = value.Size
	case string:
		size = int64(len(value))
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(size) <= maxSizeMB*bytesPerMegabyte
}

func validateUsername(field val.FieldLevel) bool {
	return usernamePattern.MatchString(field.Field().String())
}

func validateLocalDateTime(field val.FieldLevel) bool {
	_, err := time.Parse(constant.LocalDateTimeFormat, field.Field().String())

	return err == nil
}

// dataURIContentType extracts the media type from "data:<type>;base64,<payload>".
func dataURIContentType(value string) string {
	const prefix = "data:"

	end := strings.Index(value, ";base64,")
	if !strings.HasPrefix(value, prefix) || end < len(prefix) {
		return constant.Empty
	}

	return value[len(prefix):end]
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	custom := map[string]val.Func{
		"mimetypes":     validateMimetype,
		"maxfilesize":   validateFileSize,
		"username":      validateUsername,
		"localdatetime": validateLocalDateTime,
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateID returns notFound for ids that are not UUIDs, since no stored row can carry one.
func ValidateID(id string, notFound error) error {
	if err := validate.Var(id, "required,uuid"); err != nil {
		return notFound
	}

	return nil
}

// ValidateIDFilter rejects a query filter value that is not a UUID.
func ValidateIDFilter(field, value string) error {
	if err := validate.Var(value, "uuid"); err != nil {
		return failure.BadRequestFromString(strings.ReplaceAll(messages["uuid"], "{field}", field)) //nolint:wrapcheck
	}

	return nil
}
