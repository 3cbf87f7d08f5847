// Command client is an interactive terminal client for the chat relay.
//
// Usage:
//
//	client <username> [server-url]
//
// Plain input lines are sent as chat messages. Commands:
//
//	/join <room>   switch rooms
//	/leave         leave the current room
//	/quit          disconnect and exit
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

type frame struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Content  string `json:"content,omitempty"`
}

type event struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Room      string `json:"room"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <username> [server-url]\n", os.Args[0])
		os.Exit(1)
	}
	username := os.Args[1]
	serverURL := "ws://localhost:5000/ws"
	if len(os.Args) > 2 {
		serverURL = os.Args[2]
	}

	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		log.Fatalf("connect to %s: %v", serverURL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	send(conn, frame{Type: "join", Username: username})

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			<-done
			return
		case line == "/leave":
			send(conn, frame{Type: "leave"})
		case strings.HasPrefix(line, "/join "):
			room := strings.TrimSpace(strings.TrimPrefix(line, "/join "))
			send(conn, frame{Type: "join", Username: username, Room: room})
		default:
			send(conn, frame{Type: "message", Content: line})
		}
	}
}

func send(conn *websocket.Conn, f frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("marshal: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("send: %v", err)
	}
}

func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Println("disconnected")
			return
		}
		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		switch ev.Type {
		case "join":
			fmt.Printf("* joined room %s as %s\n", ev.Room, ev.Username)
		case "leave":
			fmt.Printf("* left room %s\n", ev.Room)
		case "message":
			fmt.Printf("[%s] %s: %s\n", ev.Room, ev.Username, ev.Content)
		case "user_joined":
			fmt.Printf("* %s joined %s\n", ev.Username, ev.Room)
		case "user_left":
			fmt.Printf("* %s left %s\n", ev.Username, ev.Room)
		case "error":
			fmt.Printf("! %s\n", ev.Content)
		}
	}
}
