package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiVersion = "5.199"

// Event is one inbound user message.
type Event struct {
	FromID int64
	Text   string
}

// Messenger is the outbound side of the platform.
type Messenger interface {
	Send(userID int64, text string) error
}

type Client struct {
	token   string
	groupID string
	api     string
	httpc   *http.Client
	log     *slog.Logger
}

func NewClient(token, groupID string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		token:   token,
		groupID: groupID,
		api:     "https://api.vk.com/method",
		httpc:   &http.Client{Timeout: 40 * time.Second},
		log:     log,
	}
}

func (c *Client) call(method string, params url.Values, out any) error {
	params.Set("access_token", c.token)
	params.Set("v", apiVersion)
	resp, err := c.httpc.PostForm(c.api+"/"+method, params)
	if err != nil {
		return fmt.Errorf("vk: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Error *struct {
			Code int    `json:"error_code"`
			Msg  string `json:"error_msg"`
		} `json:"error"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("vk: %s: decode: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("vk: %s: api error %d: %s", method, envelope.Error.Code, envelope.Error.Msg)
	}
	if out != nil {
		return json.Unmarshal(envelope.Response, out)
	}
	return nil
}

func (c *Client) Send(userID int64, text string) error {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	params.Set("message", text)
	params.Set("random_id", strconv.FormatInt(rand.Int63(), 10))
	if err := c.call("messages.send", params, nil); err != nil {
		return err
	}
	c.log.Info("message sent", "user_id", userID)
	return nil
}

type longPollServer struct {
	Key    string `json:"key"`
	Server string `json:"server"`
	TS     string `json:"ts"`
}

// LongPoll delivers message_new events one at a time.
type LongPoll struct {
	c      *Client
	server longPollServer
}

// NewLongPoll authenticates against the group long-poll server. Failing
// here is fatal for the bot.
func NewLongPoll(c *Client) (*LongPoll, error) {
	lp := &LongPoll{c: c}
	if err := lp.refresh(); err != nil {
		return nil, err
	}
	return lp, nil
}

func (lp *LongPoll) refresh() error {
	params := url.Values{}
	params.Set("group_id", lp.c.groupID)
	return lp.c.call("groups.getLongPollServer", params, &lp.server)
}

// Listen blocks, delivering events to handle until ctx is canceled.
// Poll or parse failures are logged and retried; the loop never dies on a
// bad event.
func (lp *LongPoll) Listen(ctx context.Context, handle func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := lp.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lp.c.log.Warn("long poll failed, refreshing server", "err", err)
			if err := lp.refresh(); err != nil {
				lp.c.log.Warn("long poll server refresh failed", "err", err)
				time.Sleep(3 * time.Second)
			}
			continue
		}
		for _, ev := range updates {
			handle(ev)
		}
	}
}

func (lp *LongPoll) poll(ctx context.Context) ([]Event, error) {
	u := fmt.Sprintf("%s?act=a_check&key=%s&ts=%s&wait=25", lp.server.Server, lp.server.Key, lp.server.TS)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := lp.c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		TS      string `json:"ts"`
		Failed  int    `json:"failed"`
		Updates []struct {
			Type   string          `json:"type"`
			Object json.RawMessage `json:"object"`
		} `json:"updates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Failed != 0 {
		return nil, fmt.Errorf("long poll failed code %d", out.Failed)
	}
	lp.server.TS = out.TS

	var events []Event
	for _, upd := range out.Updates {
		if upd.Type != "message_new" {
			continue
		}
		ev, ok := ParseMessageNew(upd.Object)
		if !ok {
			lp.c.log.Warn("malformed message_new event dropped")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// ParseMessageNew extracts an Event from a message_new object, accepting
// both the flat and the nested "message" payload shapes.
func ParseMessageNew(raw json.RawMessage) (Event, bool) {
	var obj struct {
		Message *struct {
			FromID int64  `json:"from_id"`
			Text   string `json:"text"`
		} `json:"message"`
		FromID int64  `json:"from_id"`
		Text   string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Event{}, false
	}
	ev := Event{FromID: obj.FromID, Text: obj.Text}
	if obj.Message != nil {
		ev = Event{FromID: obj.Message.FromID, Text: obj.Message.Text}
	}
	if ev.FromID == 0 {
		return Event{}, false
	}
	return ev, true
}
