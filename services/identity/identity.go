// Package identitysvc fabricates ids for placeholder instructors.
package identitysvc

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

const DefaultURL = "https://randomuser.me/api/"

var (
	_ course.IdentityGenerator = (*RandomUserGenerator)(nil)
	_ course.IdentityGenerator = UUIDGenerator{}

	errNoResults = errors.New("random user API returned no results")
)

// RandomUserGenerator asks randomuser.me for a random person and uses its login uuid.
type RandomUserGenerator struct {
	client *resty.Client
	url    string
}

type randomUserResponse struct {
	Results []struct {
		Login struct {
			UUID string `json:"uuid"`
		} `json:"login"`
	} `json:"results"`
}

func NewRandomUserGenerator(url string, timeout time.Duration) *RandomUserGenerator {
	if url == "" {
		url = DefaultURL
	}
	client := resty.New().SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &RandomUserGenerator{client: client, url: url}
}

func (g *RandomUserGenerator) NewIdentity(ctx context.Context) (course.ID, error) {
	op := "GET " + g.url
	var body randomUserResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(g.url)
	if err != nil {
		return "", core.NewNetworkError(op, 0, err)
	}
	if resp.IsError() {
		return "", core.NewNetworkError(op, resp.StatusCode(), errors.New(http.StatusText(resp.StatusCode())))
	}
	if len(body.Results) == 0 || body.Results[0].Login.UUID == "" {
		return "", core.NewNetworkError(op, resp.StatusCode(), errNoResults)
	}
	return course.NewID(body.Results[0].Login.UUID), nil
}

// UUIDGenerator generates ids locally.
type UUIDGenerator struct{}

func (UUIDGenerator) NewIdentity(context.Context) (course.ID, error) {
	return course.ID(uuid.NewString()), nil
}

// NewGenerator picks the offline generator when conf asks for it.
func NewGenerator(conf *core.Config) course.IdentityGenerator {
	if conf.Identity.Offline {
		return UUIDGenerator{}
	}
	return NewRandomUserGenerator(conf.Identity.URL, conf.API.Timeout)
}
