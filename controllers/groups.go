package controllers

import (
	"Playroom/middleware"
	"Playroom/models"
	"Playroom/services/lobby"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GroupController serves player groups over HTTP
type GroupController struct {
	Service *lobby.Service
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=280"`
}

// @Summary Creates a group
// @Description The caller becomes the admin of a new group with a fresh 6 character code
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param group body createGroupRequest true "Group name and description"
// @Success 201 {object} models.Group
// @Failure 400 {object} ErrorResponse
// @Router /groups [post]
// @Security ApiKeyAuth
func (gc *GroupController) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	adminID, adminName := middleware.Caller(c)
	g, err := gc.Service.CreateGroup(c.Request.Context(), models.GroupSpec{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     adminID,
		AdminName:   adminName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// @Summary Lists the caller's groups
// @Description Groups the caller administers or belongs to, newest first
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} models.Group
// @Router /groups [get]
// @Security ApiKeyAuth
func (gc *GroupController) ListGroups(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	groups, err := gc.Service.ListGroups(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary Gets a group by id
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Group id"
// @Success 200 {object} models.Group
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id} [get]
// @Security ApiKeyAuth
func (gc *GroupController) GetGroup(c *gin.Context) {
	g, err := gc.Service.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Gets a group by its code
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param code path string true "6 character group code"
// @Success 200 {object} models.Group
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/code/{code} [get]
// @Security ApiKeyAuth
func (gc *GroupController) GetGroupByCode(c *gin.Context) {
	g, err := gc.Service.GetGroupByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Joins a group
// @Description Joining a group the caller already belongs to returns it unchanged
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param join body joinRequest true "Group code"
// @Success 200 {object} models.Group
// @Failure 404 {object} ErrorResponse
// @Router /groups/join [post]
// @Security ApiKeyAuth
func (gc *GroupController) JoinGroup(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, userName := middleware.Caller(c)
	g, err := gc.Service.JoinGroup(c.Request.Context(), req.Code, userID, userName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Leaves a group
// @Description The admin cannot leave; they delete the group instead
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Group id"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id}/leave [post]
// @Security ApiKeyAuth
func (gc *GroupController) LeaveGroup(c *gin.Context) {
	userID, _ := middleware.Caller(c)
	if err := gc.Service.LeaveGroup(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left group"})
}

// @Summary Edits a group
// @Tags groups
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Group id"
// @Param update body models.GroupUpdate true "Fields to change"
// @Success 200 {object} models.Group
// @Failure 403 {object} ErrorResponse
// @Router /groups/{id} [patch]
// @Security ApiKeyAuth
func (gc *GroupController) UpdateGroup(c *gin.Context) {
	var upd models.GroupUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	callerID, _ := middleware.Caller(c)
	g, err := gc.Service.UpdateGroup(c.Request.Context(), c.Param("id"), callerID, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// @Summary Deletes a group
// @Tags groups
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Group id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /groups/{id} [delete]
// @Security ApiKeyAuth
func (gc *GroupController) DeleteGroup(c *gin.Context) {
	callerID, _ := middleware.Caller(c)
	if err := gc.Service.DeleteGroup(c.Request.Context(), c.Param("id"), callerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}
