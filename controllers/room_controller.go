package controllers

import (
	"net/http"

	"dorm-backend/middleware"
	"dorm-backend/models"
	"dorm-backend/services"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms *services.RoomService
	Audit *services.AuditService
}

func NewRoomController(rooms *services.RoomService, audit *services.AuditService) *RoomController {
	return &RoomController{Rooms: rooms, Audit: audit}
}

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.GetAll(middleware.OrgID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := rc.Rooms.Create(middleware.OrgID(c), room)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "create", "room", created.ID, nil, created, c.ClientIP())
	c.JSON(http.StatusCreated, created)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	before, err := rc.Rooms.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	snapshot := *before

	room, err := rc.Rooms.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "update", "room", id, snapshot, room, c.ClientIP())
	c.JSON(http.StatusOK, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	rc.Audit.Record(middleware.OrgID(c), middleware.AdminID(c), "delete", "room", id, nil, nil, c.ClientIP())
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
