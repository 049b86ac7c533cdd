package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/t3ratech/bantora-web/internal/models"
	"github.com/t3ratech/bantora-web/internal/repository"
	"github.com/t3ratech/bantora-web/internal/services"
)

// homeColumnLimit caps how many cards each home page column shows
const homeColumnLimit = 10

// HomePage is the data rendered by the home template
type HomePage struct {
	Query   string
	Popular []models.Poll
	Recent  []models.Poll
	Ideas   []models.Idea
}

// HomeHandler renders the home page with popular polls, new polls and raw ideas
type HomeHandler struct {
	template    *template.Template
	pollService services.PollService
	ideaService services.IdeaService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(templatePath string, pollService services.PollService, ideaService services.IdeaService) (*HomeHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}

	return &HomeHandler{
		template:    tmpl,
		pollService: pollService,
		ideaService: ideaService,
	}, nil
}

// ServeHTTP handles the GET / request. The q parameter filters every column.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := HomePage{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	popular, err := h.pollService.Popular(ctx, "", homeColumnLimit)
	if err != nil {
		log.Printf("Error loading popular polls: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	recent, err := h.pollService.ListActive(ctx, repository.PollFilter{
		Sort:  repository.SortCreated,
		Limit: homeColumnLimit,
	})
	if err != nil {
		log.Printf("Error loading new polls: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	ideas, err := h.ideaService.List(ctx, string(models.IdeaStatusPending), "", "")
	if err != nil {
		log.Printf("Error loading ideas: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page.Popular = filterPolls(popular, page.Query)
	page.Recent = filterPolls(recent, page.Query)
	page.Ideas = filterIdeas(ideas, page.Query)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, page); err != nil {
		log.Printf("Error rendering home page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

func filterPolls(polls []models.Poll, query string) []models.Poll {
	if query == "" {
		return polls
	}
	var out []models.Poll
	for _, p := range polls {
		if p.MatchesQuery(query) {
			out = append(out, p)
		}
	}
	return out
}

func filterIdeas(ideas []models.Idea, query string) []models.Idea {
	if query == "" {
		return ideas
	}
	var out []models.Idea
	for _, i := range ideas {
		if i.MatchesQuery(query) {
			out = append(out, i)
		}
	}
	return out
}
