package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details() Details {
	return Details{
		Name:        " Edakkal Caves ",
		Description: "Neolithic rock shelters with petroglyphs.",
		TicketPrice: 50,
		OpenTime:    "09:00",
		CloseTime:   "16:00",
		LocationURL: "https://maps.example.com/edakkal",
	}
}

func TestNewPlace(t *testing.T) {
	p, err := NewPlace(details())
	require.NoError(t, err)
	assert.Equal(t, "Edakkal Caves", p.Name())
	assert.Empty(t, p.Gallery())
}

func TestDetails_Validate(t *testing.T) {
	d := details()
	d.Name = ""
	d.TicketPrice = -1
	d.CloseTime = "08:00"
	d.LocationURL = "maps"
	assert.Error(t, d.Validate())
}

func TestGallery(t *testing.T) {
	p, err := NewPlace(details())
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		require.NoError(t, p.AddGalleryImage("https://example.com/img.jpg"))
	}
	assert.Error(t, p.AddGalleryImage("https://example.com/13.jpg"))
	assert.Len(t, p.Gallery(), 12)

	require.NoError(t, p.RemoveGalleryImage(0))
	assert.Len(t, p.Gallery(), 11)
	assert.Error(t, p.RemoveGalleryImage(11))
	assert.Error(t, p.AddGalleryImage("not-an-image"))
}
