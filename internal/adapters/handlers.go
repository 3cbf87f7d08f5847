package adapters

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/auth"
	"github.com/checkpoint-chat/relay/internal/config"
	"github.com/checkpoint-chat/relay/internal/domain"
	"github.com/checkpoint-chat/relay/internal/relay"
	"github.com/checkpoint-chat/relay/internal/store"
)

// API holds the REST handlers and their collaborators.
type API struct {
	Users    *store.UserRepository
	Rooms    *store.RoomRepository
	Messages *store.MessageRepository
	Tokens   *auth.TokenManager
	Hub      *relay.Hub
	Cfg      *config.Config
}

// respond keeps the REST responses in one envelope shape.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if len(req.Username) < domain.MinUsernameLen || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be between 6 and 128 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error during registration"})
		return
	}

	user, err := a.Users.Create(req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Username or email already in use"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.api").Msg("register user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error during registration"})
		return
	}

	token, err := a.Tokens.Generate(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error during registration"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"createdAt": user.CreatedAt,
		},
		"token": token,
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	user, err := a.Users.FindByIdentifier(req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.api").Msg("login lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := a.Tokens.Generate(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"token": token,
	})
}

type roomView struct {
	Name        string `json:"name"`
	CreatedBy   string `json:"createdBy,omitempty"`
	MemberCount int    `json:"memberCount"`
}

func (a *API) ListRooms(c *gin.Context) {
	rooms, err := a.Rooms.FindAll()
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.api").Msg("list rooms")
		respond(c, http.StatusInternalServerError, "Failed to fetch rooms", nil)
		return
	}

	out := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomView{
			Name:        r.Name,
			CreatedBy:   r.CreatedBy,
			MemberCount: len(a.Hub.RoomMembers(domain.RoomName(r.Name))),
		})
	}
	respond(c, http.StatusOK, "Rooms fetched successfully", out)
}

func (a *API) CreateRoom(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respond(c, http.StatusBadRequest, "Room name is required", nil)
		return
	}
	name := string(domain.RoomName(req.Name).Truncate())

	room, err := a.Rooms.Create(name, usernameFromContext(c))
	if err != nil {
		if errors.Is(err, store.ErrRoomExists) {
			respond(c, http.StatusConflict, "Room already exists", nil)
			return
		}
		log.Error().Err(err).Str("module", "adapters.api").Msg("create room")
		respond(c, http.StatusInternalServerError, "Failed to create room", nil)
		return
	}
	respond(c, http.StatusCreated, "Room created successfully", roomView{
		Name:      room.Name,
		CreatedBy: room.CreatedBy,
	})
}

func (a *API) GetRoom(c *gin.Context) {
	name := c.Param("name")
	room, err := a.Rooms.FindByName(name)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			respond(c, http.StatusNotFound, "Room not found", nil)
			return
		}
		log.Error().Err(err).Str("module", "adapters.api").Msg("get room")
		respond(c, http.StatusInternalServerError, "Failed to fetch room", nil)
		return
	}

	members := a.Hub.RoomMembers(domain.RoomName(name))
	respond(c, http.StatusOK, "Room fetched successfully", gin.H{
		"name":        room.Name,
		"createdBy":   room.CreatedBy,
		"members":     members,
		"memberCount": len(members),
	})
}

func (a *API) DeleteRoom(c *gin.Context) {
	name := c.Param("name")
	if err := a.Rooms.Delete(name); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			respond(c, http.StatusNotFound, "Room not found", nil)
			return
		}
		log.Error().Err(err).Str("module", "adapters.api").Msg("delete room")
		respond(c, http.StatusInternalServerError, "Failed to delete room", nil)
		return
	}
	respond(c, http.StatusOK, "Room deleted successfully", nil)
}

func (a *API) RoomMessages(c *gin.Context) {
	name := c.Param("name")
	msgs, err := a.Messages.RecentByRoom(name, a.Cfg.HistoryLimit)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.api").Msg("room messages")
		respond(c, http.StatusInternalServerError, "Failed to fetch messages", nil)
		return
	}

	type messageView struct {
		Username  string `json:"username"`
		Room      string `json:"room"`
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageView{
			Username:  m.Username,
			Room:      m.Room,
			Content:   m.Content,
			Timestamp: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respond(c, http.StatusOK, "Messages fetched successfully", out)
}

// Stats exposes the relay's read-only introspection queries.
func (a *API) Stats(c *gin.Context) {
	respond(c, http.StatusOK, "Stats fetched successfully", gin.H{
		"activeRooms": a.Hub.ActiveRooms(),
		"userCount":   a.Hub.UserCount(),
	})
}
