// file: internals/features/social/service/clients.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"schoolchamps_backend/internals/features/social/model"
)

const (
	facebookGraphBase = "https://graph.facebook.com/v19.0"
	linkedinAPIBase   = "https://api.linkedin.com/v2"
	linkedinOAuthBase = "https://www.linkedin.com/oauth/v2"
)

func newPlatformHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// classify maps a transport error or HTTP status onto the taxonomy.
func classify(platform model.SocialPlatform, status int, body []byte, err error) error {
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return NewPlatformError(platform, CodeTimeout, err)
		}
		return NewPlatformError(platform, CodeRemoteRejected, err)
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewPlatformError(platform, CodeAuthExpired, fmt.Errorf("status %d: %s", status, detail))
	case status == http.StatusTooManyRequests || status >= 500:
		return NewPlatformError(platform, CodeTimeout, fmt.Errorf("status %d: %s", status, detail))
	default:
		return NewPlatformError(platform, CodeRemoteRejected, fmt.Errorf("status %d: %s", status, detail))
	}
}

/* =========================================================
   FACEBOOK (page feed)
   ========================================================= */

type FacebookClient struct {
	http *http.Client
}

func NewFacebookClient() *FacebookClient {
	return &FacebookClient{http: newPlatformHTTPClient()}
}

func (c *FacebookClient) Post(ctx context.Context, conn *Snapshot, content PostContent) (string, error) {
	if conn.TargetID == "" {
		return "", NewPlatformError(model.PlatformFacebook, CodeNotConnected, errors.New("no facebook page selected"))
	}

	form := url.Values{}
	form.Set("message", content.Message)
	if content.LinkURL != "" {
		form.Set("link", content.LinkURL)
	}
	form.Set("access_token", conn.AccessToken)

	endpoint := fmt.Sprintf("%s/%s/feed", facebookGraphBase, conn.TargetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(model.PlatformFacebook, 0, nil, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", classify(model.PlatformFacebook, resp.StatusCode, body, nil)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return "", NewPlatformError(model.PlatformFacebook, CodeRemoteRejected, errors.New("missing post id in response"))
	}
	return out.ID, nil
}

/* =========================================================
   INSTAGRAM (content publishing via the Graph API)

   Two-step: create a media container on the IG business
   account, then publish it. Uses the Facebook page token;
   the connection's target id is the IG business account.
   ========================================================= */

type InstagramClient struct {
	http *http.Client
}

func NewInstagramClient() *InstagramClient {
	return &InstagramClient{http: newPlatformHTTPClient()}
}

func (c *InstagramClient) Post(ctx context.Context, conn *Snapshot, content PostContent) (string, error) {
	if conn.TargetID == "" {
		return "", NewPlatformError(model.PlatformInstagram, CodeNotConnected, errors.New("no instagram business account selected"))
	}
	if content.ImageURL == "" {
		return "", NewPlatformError(model.PlatformInstagram, CodeRemoteRejected, errors.New("instagram requires an image"))
	}

	caption := content.Message
	if content.LinkURL != "" {
		caption = caption + "\n" + content.LinkURL
	}

	containerID, err := c.graphPost(ctx, fmt.Sprintf("%s/%s/media", facebookGraphBase, conn.TargetID), url.Values{
		"image_url":    {content.ImageURL},
		"caption":      {caption},
		"access_token": {conn.AccessToken},
	})
	if err != nil {
		return "", err
	}

	mediaID, err := c.graphPost(ctx, fmt.Sprintf("%s/%s/media_publish", facebookGraphBase, conn.TargetID), url.Values{
		"creation_id":  {containerID},
		"access_token": {conn.AccessToken},
	})
	if err != nil {
		return "", err
	}
	return mediaID, nil
}

func (c *InstagramClient) graphPost(ctx context.Context, endpoint string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(model.PlatformInstagram, 0, nil, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", classify(model.PlatformInstagram, resp.StatusCode, body, nil)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return "", NewPlatformError(model.PlatformInstagram, CodeRemoteRejected, errors.New("missing id in response"))
	}
	return out.ID, nil
}

/* =========================================================
   LINKEDIN (organization share + OAuth refresh)
   ========================================================= */

type LinkedInClient struct {
	http *http.Client
}

func NewLinkedInClient() *LinkedInClient {
	return &LinkedInClient{http: newPlatformHTTPClient()}
}

func (c *LinkedInClient) Post(ctx context.Context, conn *Snapshot, content PostContent) (string, error) {
	if conn.TargetID == "" {
		return "", NewPlatformError(model.PlatformLinkedIn, CodeNotConnected, errors.New("no linkedin organization selected"))
	}

	text := content.Message
	if content.LinkURL != "" {
		text = text + "\n" + content.LinkURL
	}
	payload := map[string]any{
		"author":         fmt.Sprintf("urn:li:organization:%s", conn.TargetID),
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, linkedinAPIBase+"/ugcPosts", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+conn.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(model.PlatformLinkedIn, 0, nil, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", classify(model.PlatformLinkedIn, resp.StatusCode, body, nil)
	}

	if id := resp.Header.Get("X-RestLi-Id"); id != "" {
		return id, nil
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return "", NewPlatformError(model.PlatformLinkedIn, CodeRemoteRejected, errors.New("missing post id in response"))
	}
	return out.ID, nil
}

type linkedinTokenResponse struct {
	AccessToken           string `json:"access_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

// LinkedInOAuth drives the three-legged flow and token rotation.
// It satisfies TokenRefresher.
type LinkedInOAuth struct {
	clientID     string
	clientSecret string
	redirectURL  string
	http         *http.Client
}

func NewLinkedInOAuth(clientID, clientSecret, redirectURL string) *LinkedInOAuth {
	return &LinkedInOAuth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		http:         newPlatformHTTPClient(),
	}
}

// AuthURL builds the consent URL the dashboard redirects the school to.
func (o *LinkedInOAuth) AuthURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", o.clientID)
	q.Set("redirect_uri", o.redirectURL)
	q.Set("state", state)
	q.Set("scope", "r_organization_social w_organization_social rw_organization_admin")
	return linkedinOAuthBase + "/authorization?" + q.Encode()
}

// Exchange trades an authorization code for tokens.
func (o *LinkedInOAuth) Exchange(ctx context.Context, code string) (access, refresh string, expiresAt time.Time, err error) {
	return o.tokenRequest(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {o.redirectURL},
		"client_id":     {o.clientID},
		"client_secret": {o.clientSecret},
	})
}

func (o *LinkedInOAuth) Refresh(ctx context.Context, refreshToken string) (access, refresh string, expiresAt time.Time, err error) {
	return o.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {o.clientID},
		"client_secret": {o.clientSecret},
	})
}

func (o *LinkedInOAuth) tokenRequest(ctx context.Context, form url.Values) (string, string, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		linkedinOAuthBase+"/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.http.Do(req)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("linkedin token request: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", "", time.Time{}, fmt.Errorf("linkedin token request failed (%d): %s", resp.StatusCode, body)
	}

	var out linkedinTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode linkedin token: %w", err)
	}
	if out.AccessToken == "" {
		return "", "", time.Time{}, errors.New("linkedin returned no access token")
	}
	return out.AccessToken, out.RefreshToken, time.Now().Add(time.Duration(out.ExpiresIn) * time.Second), nil
}

// ListOrganizations returns the organizations the token can post for.
func (o *LinkedInOAuth) ListOrganizations(ctx context.Context, accessToken string) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		linkedinAPIBase+"/organizationAcls?q=roleAssignee&role=ADMINISTRATOR", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin organizations: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linkedin organizations failed (%d)", resp.StatusCode)
	}

	var out struct {
		Elements []map[string]any `json:"elements"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode organizations: %w", err)
	}
	return out.Elements, nil
}
