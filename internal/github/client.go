// Package github provides the source-data collaborator backed by the
// GitHub API. It is read-only from the core's perspective; failures are
// classified into fault kinds here and nowhere else.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/velvetrock/gitscout/internal/config"
	"github.com/velvetrock/gitscout/internal/fault"
	"github.com/velvetrock/gitscout/internal/logging"
	"github.com/velvetrock/gitscout/pkg/models"
)

// Client encapsulates the GitHub API client.
type Client struct {
	client  *github.Client
	limiter *rate.Limiter
}

// NewClient creates a new GitHub API client using configuration from
// environment variables. It initializes the client with the appropriate
// base URL, authenticates, and tests the connection.
func NewClient() (*Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	token := cfg.GitHub.Token
	if token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	domain := cfg.GitHub.Domain
	if domain == "" {
		domain = "github.com"
	}

	var apiURL string
	if domain == "github.com" {
		apiURL = "https://api.github.com/"
	} else {
		apiURL = fmt.Sprintf("https://%s/api/v3/", domain)
	}

	logging.Info("github configuration",
		"domain", domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)

	if domain != "github.com" {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, classify(resp, fmt.Errorf("error testing github token: %w", err))
	}

	logging.Info("github authentication successful",
		"username", user.GetLogin())

	return &Client{
		client: client,
		// Stay well under the authenticated search/API budget.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}, nil
}

// parseRepository splits "owner/repo" and validates the format.
func parseRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fault.New(fault.KindValidation,
			fmt.Sprintf("invalid repository format: %s, expected format: owner/repo", repository))
	}
	return parts[0], parts[1], nil
}

// classify translates a GitHub API failure into a fault kind exactly once.
func classify(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	kind := fault.FromStatus(status)
	if _, ok := err.(*github.RateLimitError); ok {
		kind = fault.KindQuotaExceeded
	}
	return fault.Wrap(kind, "github request failed", err)
}

// ListIssues retrieves all open issues from a repository, filtering out
// pull requests and converting to the internal entity model.
func (c *Client) ListIssues(ctx context.Context, repository string) ([]models.Entity, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var allIssues []*github.Issue
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fault.Wrap(fault.KindUnknown, "rate limiter interrupted", err)
		}
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			logging.Error("failed to fetch github issues", "repository", repository, "error", err)
			return nil, classify(resp, err)
		}

		allIssues = append(allIssues, issues...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	var result []models.Entity
	for _, issue := range allIssues {
		// The Issues API also returns pull requests.
		if issue.PullRequestLinks != nil {
			continue
		}
		result = append(result, issueToEntity(repository, issue))
	}

	logging.Debug("fetched issues", "repository", repository, "count", len(result))
	return result, nil
}

// GetIssue retrieves one issue as an entity.
func (c *Client) GetIssue(ctx context.Context, repository string, number int) (models.Entity, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return models.Entity{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.Entity{}, fault.Wrap(fault.KindUnknown, "rate limiter interrupted", err)
	}
	issue, resp, err := c.client.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return models.Entity{}, classify(resp, err)
	}

	return issueToEntity(repository, issue), nil
}

// GetRepository retrieves one repository as an entity.
func (c *Client) GetRepository(ctx context.Context, repository string) (models.Entity, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return models.Entity{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.Entity{}, fault.Wrap(fault.KindUnknown, "rate limiter interrupted", err)
	}
	r, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return models.Entity{}, classify(resp, err)
	}

	return repoToEntity(r), nil
}

// SearchRepositories returns a listing of repositories matching a query,
// sorted by stars. An empty query lists popular repositories labelled
// friendly to new contributors.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]models.Entity, error) {
	if query == "" {
		query = "good-first-issues:>5 stars:>100"
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: 30,
		},
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fault.Wrap(fault.KindUnknown, "rate limiter interrupted", err)
	}
	res, resp, err := c.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		logging.Error("repository search failed", "query", query, "error", err)
		return nil, classify(resp, err)
	}

	var result []models.Entity
	for _, r := range res.Repositories {
		result = append(result, repoToEntity(r))
	}

	logging.Debug("repository search", "query", query, "count", len(result))
	return result, nil
}

func issueToEntity(repository string, issue *github.Issue) models.Entity {
	labelNames := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labelNames = append(labelNames, label.GetName())
	}

	return models.Entity{
		Ref: models.EntityRef{
			Repository: repository,
			Number:     issue.GetNumber(),
			Kind:       models.KindIssue,
		},
		Title:       issue.GetTitle(),
		Description: issue.GetBody(),
		State:       issue.GetState(),
		Labels:      labelNames,
		CreatedAt:   issue.GetCreatedAt(),
		UpdatedAt:   issue.GetUpdatedAt(),
	}
}

func repoToEntity(r *github.Repository) models.Entity {
	return models.Entity{
		Ref: models.EntityRef{
			Repository: r.GetFullName(),
			Kind:       models.KindRepository,
		},
		Title:       r.GetFullName(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Language:    r.GetLanguage(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}
