package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/taskhive/backend/internal/dto"
	"github.com/taskhive/backend/internal/threadview"
)

// threadtail follows one task's comment thread live: it loads the current
// page over REST, joins the task's broadcast room, and keeps a reconciled
// thread view printed to the terminal.
func main() {
	var (
		server = flag.String("server", "http://localhost:8800", "API server base URL")
		token  = flag.String("token", "", "session token (JWT)")
		taskID = flag.String("task", "", "task id to follow")
	)
	flag.Parse()

	if *token == "" || *taskID == "" {
		flag.Usage()
		os.Exit(2)
	}

	task, err := uuid.Parse(*taskID)
	if err != nil {
		log.Fatalf("invalid task id: %v", err)
	}

	view := threadview.New(task)

	if err := loadSnapshot(view, *server, *token, task); err != nil {
		log.Fatalf("failed to load comments: %v", err)
	}
	render(view)

	conn, err := dial(*server, *token)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	join, _ := json.Marshal(dto.WSEvent{
		Type:    dto.WSTypeJoinTask,
		Payload: dto.WSJoinTask{TaskID: task},
	})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		log.Fatalf("failed to join task room: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		leave, _ := json.Marshal(dto.WSEvent{
			Type:    dto.WSTypeLeaveTask,
			Payload: dto.WSJoinTask{TaskID: task},
		})
		_ = conn.WriteMessage(websocket.TextMessage, leave)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		os.Exit(0)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("connection closed: %v", err)
		}
		if apply(view, task, message) {
			render(view)
		}
	}
}

func loadSnapshot(view *threadview.ThreadView, server, token string, task uuid.UUID) error {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/comment/task/%s", server, task), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body dto.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if !body.Status {
		return fmt.Errorf("server refused: %s", body.Message)
	}

	view.LoadSnapshot(body.Comments)
	return nil
}

func dial(server, token string) (*websocket.Conn, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := url.URL{Scheme: scheme, Host: u.Host, Path: "/ws", RawQuery: "token=" + url.QueryEscape(token)}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	return conn, err
}

// apply folds one broadcast frame into the view. Returns whether the thread
// changed.
func apply(view *threadview.ThreadView, task uuid.UUID, message []byte) bool {
	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(message, &event); err != nil {
		return false
	}

	switch event.Type {
	case dto.WSTypeCommentAdded:
		var p dto.WSNewComment
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.TaskID != task {
			return false
		}
		view.ApplyCommentAdded(p.Comment)
		return true

	case dto.WSTypeCommentUpdated:
		var p dto.WSCommentUpdated
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return false
		}
		view.ApplyCommentUpdated(p.CommentID, p.Content)
		return true

	case dto.WSTypeCommentDeleted:
		var p dto.WSCommentDeleted
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return false
		}
		view.ApplyCommentDeleted(p.CommentID)
		return true

	case dto.WSTypeReactionAdded:
		var p dto.WSEmojiReaction
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return false
		}
		view.ApplyReactionAdded(p.CommentID, p.Emoji, p.UserID, p.UserName)
		return true

	case dto.WSTypeUserMentioned:
		var p dto.WSUserMentioned
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return false
		}
		fmt.Printf("\n*** you were mentioned by %s ***\n", p.Commenter)
		return false
	}
	return false
}

func render(view *threadview.ThreadView) {
	comments := view.Comments()
	fmt.Printf("\n==== thread (%d comments) ====\n", len(comments))
	for _, c := range comments {
		indent := ""
		if c.ParentCommentID != nil {
			indent = "    "
		}
		edited := ""
		if c.IsEdited {
			edited = " (edited)"
		}
		fmt.Printf("%s[%s] %s%s: %s\n", indent, c.CreatedAt.Format("15:04"), c.AuthorName, edited, c.Content)
		if len(c.ReactionSummary) > 0 {
			var parts []string
			for _, rc := range c.ReactionSummary {
				parts = append(parts, fmt.Sprintf("%s %d", rc.Emoji, rc.Count))
			}
			fmt.Printf("%s    %s\n", indent, strings.Join(parts, "  "))
		}
	}
}
