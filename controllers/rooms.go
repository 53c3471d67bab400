package controllers

import (
	"Playroom/middleware"
	"Playroom/models"
	"Playroom/services/lobby"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoomController serves the room lifecycle over HTTP
type RoomController struct {
	Service *lobby.Service
}

// RoomView is a room plus its ready gate
type RoomView struct {
	models.Room
	Gate lobby.Gate `json:"gate"`
}

func newRoomView(room *models.Room) RoomView {
	return RoomView{Room: *room, Gate: lobby.EvaluateGate(room)}
}

type joinRequest struct {
	Code string `json:"code" binding:"required"`
}

type readyRequest struct {
	Ready *bool `json:"ready" binding:"required"`
}

type teamRequest struct {
	TeamID string `json:"teamId"`
}

// @Summary Creates a room
// @Description The caller becomes the host and only player of a new WAITING room with a fresh 6 character code
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param room body models.RoomSpec true "Room settings, hostId and hostName are taken from the token"
// @Success 201 {object} RoomView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /rooms [post]
// @Security ApiKeyAuth
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var spec models.RoomSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		badRequest(c, err)
		return
	}
	spec.HostID, spec.HostName = middleware.Caller(c)

	room, err := rc.Service.CreateRoom(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoomView(room))
}

// @Summary Lists open rooms
// @Description Public rooms, WAITING unless another status is asked for, newest first
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param gameType query string false "maze, flappy, tetris, pacman or trivia"
// @Param status query string false "WAITING, PLAYING or FINISHED"
// @Success 200 {array} models.Room
// @Failure 400 {object} ErrorResponse
// @Router /rooms [get]
// @Security ApiKeyAuth
func (rc *RoomController) ListRooms(c *gin.Context) {
	var filter models.RoomFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	rooms, err := rc.Service.ListRooms(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	c.JSON(http.StatusOK, rooms)
}

// @Summary Gets a room by id
// @Description Returns the room together with its ready gate. Polled by clients while waiting.
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Success 200 {object} RoomView
// @Failure 404 {object} ErrorResponse
// @Router /rooms/{id} [get]
// @Security ApiKeyAuth
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.Service.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Gets a room by its share code
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "6 character room code"
// @Success 200 {object} RoomView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rooms/code/{code} [get]
// @Security ApiKeyAuth
func (rc *RoomController) GetRoomByCode(c *gin.Context) {
	room, err := rc.Service.GetRoomByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Joins a room
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param join body joinRequest true "Room code"
// @Success 200 {object} RoomView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "ALREADY_MEMBER, NOT_JOINABLE or CAPACITY"
// @Router /rooms/join [post]
// @Security ApiKeyAuth
func (rc *RoomController) JoinRoom(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, userName := middleware.Caller(c)
	room, err := rc.Service.Join(c.Request.Context(), req.Code, userID, userName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Leaves a room
// @Description Leaving a room the caller is not in succeeds without changes
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Success 200 {object} object{message=string}
// @Router /rooms/{id}/leave [post]
// @Security ApiKeyAuth
func (rc *RoomController) LeaveRoom(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	if err := rc.Service.Leave(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left room"})
}

// @Summary Sets the caller's ready flag
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Param ready body readyRequest true "Ready flag"
// @Success 200 {object} RoomView
// @Failure 404 {object} ErrorResponse
// @Router /rooms/{id}/ready [post]
// @Security ApiKeyAuth
func (rc *RoomController) SetReady(c *gin.Context) {
	var req readyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, _ := middleware.Caller(c)
	room, err := rc.Service.SetReady(c.Request.Context(), c.Param("id"), userID, *req.Ready)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Moves the caller to a team
// @Description An empty teamId removes the caller from every team
// @Tags rooms
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Param team body teamRequest true "Team id"
// @Success 200 {object} RoomView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rooms/{id}/team [post]
// @Security ApiKeyAuth
func (rc *RoomController) SetTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, _ := middleware.Caller(c)
	room, err := rc.Service.ChooseTeam(c.Request.Context(), c.Param("id"), userID, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Starts the game
// @Description Host only. Fails with NOT_READY until enough players joined and every non-host player is ready.
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Success 200 {object} RoomView
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "NOT_READY or INVALID_TRANSITION"
// @Router /rooms/{id}/start [post]
// @Security ApiKeyAuth
func (rc *RoomController) StartRoom(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	room, err := rc.Service.Start(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Marks a game as finished
// @Tags rooms
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Success 200 {object} RoomView
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /rooms/{id}/finish [post]
// @Security ApiKeyAuth
func (rc *RoomController) FinishRoom(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	room, err := rc.Service.Finish(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomView(room))
}

// @Summary Records a heartbeat
// @Description Best effort, always answers 204
// @Tags rooms
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Room id"
// @Success 204
// @Router /rooms/{id}/heartbeat [post]
// @Security ApiKeyAuth
func (rc *RoomController) Heartbeat(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	rc.Service.Heartbeat(c.Request.Context(), c.Param("id"), userID)
	c.Status(http.StatusNoContent)
}
