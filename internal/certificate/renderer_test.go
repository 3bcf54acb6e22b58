package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("LearnHub")
	pdf, err := r.Render(Data{
		RecipientName: "Ada Lovelace",
		CourseTitle:   "Analytical Engines 101",
		CertificateID: "65f1a2b3c4d5e6f7a8b9c0d1",
		IssuedAt:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, len(pdf) > 1000)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Contains(t, string(pdf[len(pdf)-16:]), "%%EOF")
}

func TestRenderPrintsNamesAndCourse(t *testing.T) {
	r := NewRenderer("LearnHub")
	// Uncompressed content streams keep the drawn text findable in the raw
	// output.
	r.compress = false
	pdf, err := r.Render(Data{
		RecipientName: "Ada Lovelace",
		CourseTitle:   "Analytical Engines 101",
		CertificateID: "65f1a2b3c4d5e6f7a8b9c0d1",
		IssuedAt:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	raw := string(pdf)
	assert.Contains(t, raw, "Ada Lovelace")
	assert.Contains(t, raw, "Analytical Engines 101")
	assert.Contains(t, raw, "Certificate of Completion")
	assert.Contains(t, raw, "Certificate ID: 65f1a2b3c4d5e6f7a8b9c0d1")
	assert.Contains(t, raw, "Issued on March 14, 2026")
	assert.Contains(t, raw, "LearnHub")
}

func TestRenderSignatureVaries(t *testing.T) {
	a, err := NewRenderer("LearnHub").Render(Data{RecipientName: "A", CourseTitle: "B", CertificateID: "c", IssuedAt: time.Now()})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	b, err := NewRenderer("LearnHub").Render(Data{RecipientName: "A", CourseTitle: "B", CertificateID: "c", IssuedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
