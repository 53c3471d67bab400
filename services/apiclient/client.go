package apiclient

import (
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var _ lobby.Store = (*Client)(nil)

// Identity is the player this client acts for
type Identity struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

type apiError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Client talks to the Playroom HTTP API and implements lobby.Store for one identity.
// Transport failures and gateway errors come back as lobby.ErrUnavailable.
type Client struct {
	http     *resty.Client
	identity Identity

	mu    sync.Mutex
	token string
}

func New(baseURL string, identity Identity, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: client, identity: identity}
}

func (c *Client) Identity() Identity {
	return c.identity
}

func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	var out tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(c.identity).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/session")
	if err := transportError(ctx, err); err != nil {
		return "", err
	}
	if err := responseError(resp); err != nil {
		return "", err
	}
	c.token = out.Token
	return c.token, nil
}

func (c *Client) resetToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

type call struct {
	method string
	path   string
	params map[string]string
	query  map[string]string
	body   any
	result any
}

func (c *Client) do(ctx context.Context, req call) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}
		r := c.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetError(&apiError{}).
			SetPathParams(req.params).
			SetQueryParams(req.query)
		if req.body != nil {
			r.SetBody(req.body)
		}
		if req.result != nil {
			r.SetResult(req.result)
		}
		resp, err := r.Execute(req.method, req.path)
		if err := transportError(ctx, err); err != nil {
			return err
		}
		// expired token: fetch a new one once
		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			c.resetToken()
			continue
		}
		return responseError(resp)
	}
	return fmt.Errorf("%w: token rejected", lobby.ErrAuthorization)
}

func transportError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	logrus.WithError(err).Debug("[API] request failed")
	return fmt.Errorf("%w: %v", lobby.ErrUnavailable, err)
}

func responseError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr.Code != "" {
		return lobby.ErrorFromCode(apiErr.Code, apiErr.Message)
	}
	switch resp.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", lobby.ErrUnavailable, resp.StatusCode())
	case http.StatusNotFound:
		return lobby.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return lobby.ErrAuthorization
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
}

// acting checks that an operation on behalf of userID is one this client may perform
func (c *Client) acting(userID string) error {
	if userID != c.identity.UserID {
		return fmt.Errorf("%w: client acts for %s, not %s", lobby.ErrAuthorization, c.identity.UserID, userID)
	}
	return nil
}

func (c *Client) CreateRoom(ctx context.Context, spec models.RoomSpec) (*models.Room, error) {
	if err := c.acting(spec.HostID); err != nil {
		return nil, err
	}
	var room models.Room
	err := c.do(ctx, call{method: http.MethodPost, path: "/rooms", body: spec, result: &room})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := c.do(ctx, call{method: http.MethodGet, path: "/rooms/{id}", params: map[string]string{"id": roomID}, result: &room})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := c.do(ctx, call{method: http.MethodGet, path: "/rooms/code/{code}", params: map[string]string{"code": code}, result: &room})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error) {
	query := map[string]string{}
	if filter.GameType != "" {
		query["gameType"] = filter.GameType
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	var rooms []models.Room
	if err := c.do(ctx, call{method: http.MethodGet, path: "/rooms", query: query, result: &rooms}); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) JoinRoom(ctx context.Context, code, userID, userName string) (*models.Room, error) {
	if err := c.acting(userID); err != nil {
		return nil, err
	}
	var room models.Room
	err := c.do(ctx, call{method: http.MethodPost, path: "/rooms/join", body: map[string]string{"code": code}, result: &room})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) roomAction(ctx context.Context, roomID, action string, body any) (*models.Room, error) {
	var room models.Room
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/rooms/{id}/" + action,
		params: map[string]string{"id": roomID},
		body:   body,
		result: &room,
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) LeaveRoom(ctx context.Context, roomID, userID string) error {
	if err := c.acting(userID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/rooms/{id}/leave", params: map[string]string{"id": roomID}})
}

func (c *Client) SetPlayerReady(ctx context.Context, roomID, userID string, ready bool) (*models.Room, error) {
	if err := c.acting(userID); err != nil {
		return nil, err
	}
	return c.roomAction(ctx, roomID, "ready", map[string]bool{"ready": ready})
}

func (c *Client) SetPlayerTeam(ctx context.Context, roomID, userID, teamID string) (*models.Room, error) {
	if err := c.acting(userID); err != nil {
		return nil, err
	}
	return c.roomAction(ctx, roomID, "team", map[string]string{"teamId": teamID})
}

// UpdateRoomStatus only supports finishing over HTTP; starting goes through StartRoom
func (c *Client) UpdateRoomStatus(ctx context.Context, roomID string, status models.RoomStatus) (*models.Room, error) {
	if status != models.StatusFinished {
		return nil, fmt.Errorf("%w: only %s can be set remotely", lobby.ErrValidation, models.StatusFinished)
	}
	return c.roomAction(ctx, roomID, "finish", nil)
}

func (c *Client) StartRoom(ctx context.Context, roomID, callerID string) (*models.Room, error) {
	if err := c.acting(callerID); err != nil {
		return nil, err
	}
	return c.roomAction(ctx, roomID, "start", nil)
}

func (c *Client) UpdatePlayerActivity(ctx context.Context, roomID, userID string) error {
	if err := c.acting(userID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/rooms/{id}/heartbeat", params: map[string]string{"id": roomID}})
}

// CleanupStaleRooms is a server job; clients have nothing to clean remotely
func (c *Client) CleanupStaleRooms(ctx context.Context) (int, error) {
	return 0, nil
}
