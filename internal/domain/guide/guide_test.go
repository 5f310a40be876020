package guide

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

func validProfile() Profile {
	return Profile{
		Name:       "Ravi Menon",
		Phone:      "9876543210",
		Languages:  []string{"Malayalam", " English ", "english", ""},
		Experience: 7,
		Bio:        "Trekking guide around Chembra Peak for seven years.",
		Image:      "https://example.com/ravi.jpg",
	}
}

func TestNewGuide(t *testing.T) {
	id := uuid.New()
	g, err := NewGuide(id, " Ravi ", "Ravi@Example.com", StatusPending)
	require.NoError(t, err)

	assert.Equal(t, id, g.ID())
	assert.Equal(t, "Ravi", g.Name())
	assert.Equal(t, "ravi@example.com", g.Email())
	assert.False(t, g.IsVerified())
	assert.True(t, g.IsOwnedBy(id))

	_, err = NewGuide(uuid.Nil, "x", "", StatusPending)
	assert.Error(t, err)
	_, err = NewGuide(uuid.New(), "x", "", GuideStatus("banned"))
	assert.Error(t, err)
}

func TestApplyProfile(t *testing.T) {
	g, err := NewGuide(uuid.New(), "Ravi", "ravi@example.com", StatusPending)
	require.NoError(t, err)

	require.NoError(t, g.ApplyProfile(validProfile()))
	assert.Equal(t, []string{"Malayalam", "English"}, g.Languages())
	assert.Equal(t, 7, g.Experience())
}

func TestApplyProfile_StoresNormalizedPhone(t *testing.T) {
	g, err := NewGuide(uuid.New(), "Ravi", "ravi@example.com", StatusPending)
	require.NoError(t, err)

	p := validProfile()
	p.Phone = "+91 98765-43210"
	require.NoError(t, g.ApplyProfile(p))
	assert.Equal(t, "9876543210", g.Phone())
}

func TestApplyProfile_Invalid(t *testing.T) {
	g, err := NewGuide(uuid.New(), "Ravi", "ravi@example.com", StatusPending)
	require.NoError(t, err)

	p := validProfile()
	p.Name = "Ra"
	p.Bio = "short"
	p.Phone = "123"
	p.Experience = 61
	p.Image = "data:image/gif;base64,AAAA"
	p.Languages = []string{" "}

	err = g.ApplyProfile(p)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	for _, f := range []string{"name", "bio", "phone", "experience", "image", "languages"} {
		assert.Contains(t, ve.Fields, f)
	}
	assert.Equal(t, "Ravi", g.Name(), "invalid profile must not be applied")
}

func TestToggleStatusAndAssignPlace(t *testing.T) {
	g, err := NewGuide(uuid.New(), "Ravi", "", StatusPending)
	require.NoError(t, err)

	g.ToggleStatus()
	assert.Equal(t, StatusVerified, g.Status())
	g.ToggleStatus()
	assert.Equal(t, StatusPending, g.Status())

	placeID := uuid.New()
	g.AssignPlace(&placeID, "Banasura Dam")
	assert.Equal(t, "Banasura Dam", g.PlaceName())
	g.AssignPlace(nil, "ignored")
	assert.Nil(t, g.PlaceID())
	assert.Empty(t, g.PlaceName())
}

func TestProfile_ImageSizeLimit(t *testing.T) {
	p := validProfile()
	p.Image = "data:image/png;base64," + strings.Repeat("A", 3<<20)
	assert.Error(t, p.Validate())
}
