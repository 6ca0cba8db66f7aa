package docuseal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRenderTemplate_SubstitutesKnownTokens(t *testing.T) {
	due := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	job := &models.JobSubmission{
		ClientFirstName: "Ada",
		ClientLastName:  "Nguyen",
		ClientCompany:   strPtr("Nguyen Holdings"),
		PropertyAddress: "1 Main St, Calgary, AB T2P 1A1",
	}
	loe := &models.LOEDetails{
		ReportType:     strPtr("Narrative"),
		FeeAmount:      strPtr("$4,500.00"),
		RetainerAmount: strPtr("$1,000.00"),
		PaymentTerms:   strPtr("Net 30"),
		ScopeOfWork:    strPtr("Full interior and exterior inspection."),
		DeliveryDate:   &due,
	}

	doc := RenderTemplate(job, loe)

	assert.Contains(t, doc, "Dear Ada Nguyen,")
	assert.Contains(t, doc, "Nguyen Holdings")
	assert.Contains(t, doc, "1 Main St, Calgary, AB T2P 1A1")
	assert.Contains(t, doc, "$4,500.00")
	assert.Contains(t, doc, "September 30, 2026")
	assert.Contains(t, doc, "Full interior and exterior inspection.")
	assert.NotContains(t, doc, "[Client Name]")
	assert.NotContains(t, doc, "[Fee Amount]")
}

func TestRenderTemplate_LeavesUnpopulatedTokensIntact(t *testing.T) {
	job := &models.JobSubmission{
		ClientFirstName: "Ada",
		ClientLastName:  "Nguyen",
		PropertyAddress: "1 Main St",
	}

	doc := RenderTemplate(job, nil)

	// No LOE: commercial-term tokens stay visible in the document
	assert.Contains(t, doc, "[Fee Amount]")
	assert.Contains(t, doc, "[Scope of Work]")
	assert.Contains(t, doc, "[Client Company]")
	assert.NotContains(t, doc, "[Client Name]")
}

func testServer(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DocuSealConfig{BaseURL: server.URL, APIKey: "ds-key"}
	return New(cfg, logger.New("test"))
}

func TestCreateSubmission_Success(t *testing.T) {
	var submitterEmail string
	client := testServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ds-key", r.Header.Get("X-Auth-Token"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/templates/html":
			json.NewEncoder(w).Encode(map[string]int{"id": 55})
		case "/submissions":
			var payload struct {
				TemplateID int                 `json:"template_id"`
				Submitters []map[string]string `json:"submitters"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, 55, payload.TemplateID)
			submitterEmail = payload.Submitters[0]["email"]
			json.NewEncoder(w).Encode([]Submission{
				{ID: 900, Slug: "abc123", SignerEmail: submitterEmail},
			})
		}
	}))

	sub, err := client.CreateSubmission(context.Background(), "<html/>", "Ada Nguyen", "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, 900, sub.ID)
	assert.Equal(t, "abc123", sub.Slug)
	assert.Equal(t, "ada@x.com", submitterEmail)
}

func TestCreateSubmission_PlaceholderEmailFallback(t *testing.T) {
	testCases := []struct {
		name  string
		email string
	}{
		{"empty email", ""},
		{"malformed email", "not-an-email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var submitterEmail string
			client := testServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/templates/html":
					json.NewEncoder(w).Encode(map[string]int{"id": 55})
				case "/submissions":
					var payload struct {
						Submitters []map[string]string `json:"submitters"`
					}
					require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
					submitterEmail = payload.Submitters[0]["email"]
					json.NewEncoder(w).Encode([]Submission{{ID: 900, Slug: "abc123"}})
				}
			}))

			_, err := client.CreateSubmission(context.Background(), "<html/>", "Ada Nguyen", tc.email)
			require.NoError(t, err, "a bad email must not block submission")
			assert.Equal(t, PlaceholderEmail, submitterEmail)
		})
	}
}

func TestCreateSubmission_ServiceError(t *testing.T) {
	client := testServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream unavailable"}`))
	}))

	sub, err := client.CreateSubmission(context.Background(), "<html/>", "Ada Nguyen", "ada@x.com")
	require.Error(t, err)
	assert.Nil(t, sub)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestSigningLink(t *testing.T) {
	assert.Equal(t, "https://docuseal.com/s/abc123", SigningLink("abc123"))
}
