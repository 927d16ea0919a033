package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPage(t *testing.T) {
	payload, err := ErrorPage("BATCH_EMPTY", "The batch has no renderable records.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestCertificatesOnePagePerEntry(t *testing.T) {
	page := CertificatePage{
		Organization:    "Life Support Training Center",
		ParticipantName: "Juan Dela Cruz",
		NameFontSize:    32,
		TrainingTitle:   "BLS Training",
		IssuedLine:      "Issued this 23rd day of January 2026",
		CertificateCode: "LSTC-BLS-HCP-2026-1",
		Officers:        []Officer{{Name: "Dr. Reyes", Position: "Training Director"}},
	}

	one, err := Certificates([]CertificatePage{page})
	require.NoError(t, err)
	three, err := Certificates([]CertificatePage{page, page, page})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(one, []byte("%PDF")))
	assert.Greater(t, len(three), len(one))
}

func TestIDCardsFrontAndBackPagesPerChunk(t *testing.T) {
	card := IDCard{
		Organization:   "Life Support Training Center",
		Name:           "Juan Dela Cruz",
		NameFontSize:   11,
		RegistrationNo: "HCP260001",
		TrainingType:   "BLS",
		TrainingDate:   "January 21-23, 2026",
		RenewalDate:    "January 25, 2028",
		Signatory:      Officer{Name: "Dr. Reyes", Position: "Training Director"},
	}

	oneChunk, err := IDCards([][]IDCard{{card, card}}, nil)
	require.NoError(t, err)
	twoChunks, err := IDCards([][]IDCard{{card, card}, {card}}, nil)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(oneChunk, []byte("%PDF")))
	assert.Greater(t, len(twoChunks), len(oneChunk))
}
