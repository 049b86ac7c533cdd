package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
)

const homeTemplate = "../../templates/home.html"

func homeFixtures() ([]models.Poll, []models.Poll, []models.Idea) {
	end := time.Now().Add(48 * time.Hour)
	popular := []models.Poll{{
		ID:         uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Title:      "Should Africa adopt a unified currency?",
		TotalVotes: 42,
		EndTime:    end,
		Options: []models.PollOption{
			{OptionText: "Yes", VotesCount: 30},
			{OptionText: "No", VotesCount: 12},
		},
	}}
	recent := []models.Poll{{
		ID:      uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Title:   "Visa-free travel across the continent",
		EndTime: end,
	}}
	ideas := []models.Idea{{
		ID:       uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Content:  "Build <more> boreholes in rural areas",
		Hashtags: []string{"water"},
		Upvotes:  7,
	}}
	return popular, recent, ideas
}

func TestHomeHandler_ServeHTTP(t *testing.T) {
	popular, recent, ideas := homeFixtures()

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		checkContent   []string
		absentContent  []string
	}{
		{
			name:           "renders all columns",
			expectedStatus: http.StatusOK,
			checkContent: []string{
				"<title>Bantora - African Polling Platform</title>",
				`aria-label="poll_card:popular:11111111-1111-1111-1111-111111111111"`,
				`aria-label="poll_card:new:22222222-2222-2222-2222-222222222222"`,
				`aria-label="idea_card:33333333-3333-3333-3333-333333333333"`,
				`aria-label="search_input"`,
				"Build &lt;more&gt; boreholes",
			},
			absentContent: []string{"search_clear_button"},
		},
		{
			name:           "search filters cards",
			query:          "?q=CURRENCY",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"poll_card:popular:11111111", `value="CURRENCY"`, "search_clear_button"},
			absentContent:  []string{"poll_card:new:22222222", "idea_card:33333333"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var recentFilter repository.PollFilter
			handler, err := NewHomeHandler(homeTemplate,
				&MockPollService{
					PopularFunc: func(string, int) ([]models.Poll, error) { return popular, nil },
					ListActiveFunc: func(filter repository.PollFilter) ([]models.Poll, error) {
						recentFilter = filter
						return recent, nil
					},
				},
				&MockIdeaService{
					ListFunc: func(status, category, hashtag string) ([]models.Idea, error) {
						if status != "PENDING" {
							t.Errorf("Expected pending ideas, got %q", status)
						}
						return ideas, nil
					},
				},
			)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if recentFilter.Sort != repository.SortCreated {
				t.Errorf("New polls should be sorted by creation, got %q", recentFilter.Sort)
			}

			body := rr.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("Expected body to contain %q", content)
				}
			}
			for _, content := range tt.absentContent {
				if strings.Contains(body, content) {
					t.Errorf("Expected body not to contain %q", content)
				}
			}
		})
	}
}

func TestHomeHandler_ServiceError(t *testing.T) {
	handler, err := NewHomeHandler(homeTemplate,
		&MockPollService{PopularFunc: func(string, int) ([]models.Poll, error) { return nil, errors.New("db down") }},
		&MockIdeaService{},
	)
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
}

func TestNewHomeHandler_MissingTemplate(t *testing.T) {
	if _, err := NewHomeHandler("missing.html", &MockPollService{}, &MockIdeaService{}); err == nil {
		t.Error("Expected error for missing template")
	}
}
