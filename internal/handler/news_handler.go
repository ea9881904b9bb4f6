package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"microblog/internal/domain"

	"github.com/sirupsen/logrus"
)

const newsUpstreamURL = "https://newsapi.org/v2/top-headlines?country=us&category=technology&pageSize=5&apiKey="

// NewsHandler proxies a third-party headlines feed. Without an API key it
// serves static placeholder content; upstream failures degrade to an empty
// article list, never an error.
type NewsHandler struct {
	apiKey string
	client *http.Client
}

func NewNewsHandler(apiKey string) *NewsHandler {
	return &NewsHandler{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *NewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		respondJSON(w, http.StatusOK, placeholderNews())
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, newsUpstreamURL+h.apiKey, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to build news request")
		respondJSON(w, http.StatusOK, domain.NewsResponse{Articles: []domain.NewsArticle{}})
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("News upstream unreachable")
		respondJSON(w, http.StatusOK, domain.NewsResponse{Articles: []domain.NewsArticle{}})
		return
	}
	defer resp.Body.Close()

	var news domain.NewsResponse
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&news) != nil {
		logrus.WithField("status", resp.StatusCode).Warn("News upstream returned bad response")
		respondJSON(w, http.StatusOK, domain.NewsResponse{Articles: []domain.NewsArticle{}})
		return
	}
	if news.Articles == nil {
		news.Articles = []domain.NewsArticle{}
	}

	respondJSON(w, http.StatusOK, news)
}

func placeholderNews() domain.NewsResponse {
	now := time.Now()
	return domain.NewsResponse{
		Articles: []domain.NewsArticle{
			{
				Source:      domain.NewsSource{Name: "TechCrunch"},
				Title:       "Sample Tech News Article",
				Description: "This is a sample news article. Get your free News API key at newsapi.org",
				URL:         "https://newsapi.org",
				URLToImage:  "https://via.placeholder.com/400x200",
				PublishedAt: now,
			},
			{
				Source:      domain.NewsSource{Name: "The Verge"},
				Title:       "Another Sample Article",
				Description: "Add NEWS_API_KEY to your .env file to see real news",
				URL:         "https://newsapi.org",
				URLToImage:  "https://via.placeholder.com/400x200",
				PublishedAt: now,
			},
		},
	}
}
