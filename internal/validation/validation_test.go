package validation

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

func TestValidator_CollectsFirstFailurePerField(t *testing.T) {
	v := New()
	v.Required("name", "  ")
	v.MinLength("name", "", 3)
	v.Email("email", "not-an-email")
	v.Phone("phone", "98765")
	v.Between("guests", 0, 1, MaxGuests)

	err := v.Err()
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Fields["name"])
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "phone")
	assert.Contains(t, ve.Fields, "guests")
	assert.Len(t, ve.Fields, 4)
}

func TestValidator_ValidInput(t *testing.T) {
	v := New()
	v.Required("name", "Anu")
	v.MinLength("name", "Anu", MinNameLen)
	v.Email("email", "anu@example.com")
	v.Phone("phone", "+91 98765 43210")
	v.Date("date", "2026-03-10")
	v.ClockTime("time", "09:30")
	v.Image("image", "https://example.com/a.jpg")
	v.OneOf("role", "guide", "tourist", "guide")

	assert.True(t, v.Valid())
	assert.NoError(t, v.Err())
}

func TestRules(t *testing.T) {
	assert.True(t, IsPhone("9876543210"))
	assert.False(t, IsPhone("98765432101"))
	assert.False(t, IsPhone("98765abcde"))
	assert.True(t, IsPhone("+91 98765-43210"))

	assert.Equal(t, "9876543210", NormalizePhone("+91 98765-43210"))
	assert.Equal(t, "9876543210", NormalizePhone(" 9876543210 "))
	assert.Equal(t, "9876543210", NormalizePhone("+919876543210"))
	assert.Equal(t, "12-34", NormalizePhone(" 12-34 "), "invalid input is only trimmed")

	assert.True(t, IsDate("2026-02-28"))
	assert.False(t, IsDate("2026-02-30"))
	assert.False(t, IsDate("10/03/2026"))

	assert.True(t, IsClockTime("23:59"))
	assert.False(t, IsClockTime("24:00"))
	assert.False(t, IsClockTime("9:30"))

	assert.True(t, IsEmail("a@b.in"))
	assert.False(t, IsEmail("Anu <a@b.in>"))
	assert.False(t, IsEmail("a@b"))
}

func TestCheckImage(t *testing.T) {
	small := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	assert.NoError(t, CheckImage(small))

	assert.Error(t, CheckImage("data:image/gif;base64,R0lGOD"))
	assert.Error(t, CheckImage("data:image/png;base64,@@@"))
	assert.Error(t, CheckImage("ftp://example.com/a.png"))
	assert.Error(t, CheckImage("not a url"))

	big := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", MaxImageBytes+1)))
	assert.Error(t, CheckImage(big))
}

func TestRegister_CustomTags(t *testing.T) {
	type form struct {
		Phone string `json:"phone" validate:"phone"`
		Date  string `json:"date" validate:"isodate"`
		Time  string `json:"time" validate:"clocktime"`
		Image string `json:"image" validate:"image"`
	}

	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(form{Phone: "9876543210", Date: "2026-03-10", Time: "10:00"}))

	err := v.Struct(form{Phone: "1", Date: "x", Time: "y", Image: "z"})
	require.Error(t, err)
	fields := FromBindingError(err)
	assert.Equal(t, "must be a 10 digit phone number", fields["phone"])
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "time")
	assert.Contains(t, fields, "image")
}
