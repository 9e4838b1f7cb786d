// internal/service/metadata/twitter.go

package metadata

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"wavesight/internal/domain/submission"
)

// tweet URLs look like https://twitter.com/<user>/status/<id> or the x.com
// equivalent
var tweetIDPattern = regexp.MustCompile(`status(?:es)?/(\d+)`)

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// TwitterExtractor resolves tweet metadata through the Twitter v2 API
type TwitterExtractor struct {
	client *twitter.Client
}

// NewTwitterExtractor creates an extractor using a bearer token
func NewTwitterExtractor(bearerToken string, timeout time.Duration) *TwitterExtractor {
	return &TwitterExtractor{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client:     &http.Client{Timeout: timeout},
			Host:       "https://api.twitter.com",
		},
	}
}

// Extract looks up the tweet behind the URL and maps its public metrics
// and entities onto submission metadata.
func (e *TwitterExtractor) Extract(ctx context.Context, postURL string) (submission.Metadata, error) {
	match := tweetIDPattern.FindStringSubmatch(postURL)
	if match == nil {
		return submission.Metadata{}, fmt.Errorf("no tweet id in url %q", postURL)
	}
	tweetID := match[1]

	resp, err := e.client.TweetLookup(ctx, []string{tweetID}, twitter.TweetLookupOpts{
		TweetFields: []twitter.TweetField{
			twitter.TweetFieldText,
			twitter.TweetFieldCreatedAt,
			twitter.TweetFieldPublicMetrics,
			twitter.TweetFieldEntities,
		},
		Expansions: []twitter.Expansion{twitter.ExpansionAuthorID},
		UserFields: []twitter.UserField{
			twitter.UserFieldName,
			twitter.UserFieldUserName,
		},
	})
	if err != nil {
		return submission.Metadata{}, fmt.Errorf("tweet lookup: %w", err)
	}

	dict, ok := resp.Raw.TweetDictionaries()[tweetID]
	if !ok || dict.Tweet.ID == "" {
		return submission.Metadata{}, fmt.Errorf("tweet %s not found", tweetID)
	}

	meta := submission.Metadata{
		Platform: submission.PlatformTwitter,
		Caption:  dict.Tweet.Text,
	}

	if m := dict.Tweet.PublicMetrics; m != nil {
		meta.Likes = int64(m.Likes)
		meta.Comments = int64(m.Replies)
		meta.Shares = int64(m.Retweets + m.Quotes)
	}

	if dict.Tweet.Entities != nil {
		for _, tag := range dict.Tweet.Entities.HashTags {
			meta.Hashtags = append(meta.Hashtags, "#"+tag.Tag)
		}
	}

	if dict.Author != nil {
		meta.CreatorName = dict.Author.Name
		if dict.Author.UserName != "" {
			meta.CreatorHandle = "@" + dict.Author.UserName
		}
	}

	if dict.Tweet.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, dict.Tweet.CreatedAt); err == nil {
			meta.PostedAt = ts
		}
	}

	return meta, nil
}
