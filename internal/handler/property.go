package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// PropertyHandler serves block, room and parking lookups.
type PropertyHandler struct {
	Property *repository.PropertyRepo
}

func NewPropertyHandler(repo *repository.PropertyRepo) *PropertyHandler {
	return &PropertyHandler{Property: repo}
}

// ViewParking: POST /viewparking. Parking slots attached to the
// tenant's rooms.
func (h *PropertyHandler) ViewParking(c echo.Context) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil || uid.Role != identity.RoleTenant {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Property.ParkingSlotsOfTenant(ctx, uid.Num)
	if err != nil {
		return serverError(c, err)
	}
	if slots == nil {
		slots = []*string{}
	}
	return c.JSON(http.StatusOK, slots)
}

// BookSlot: POST /bookslot {room_no, slot_number}.
func (h *PropertyHandler) BookSlot(c echo.Context) error {
	var req struct {
		RoomNo     int64  `json:"room_no"`
		SlotNumber string `json:"slot_number"`
	}
	if err := c.Bind(&req); err != nil || req.RoomNo == 0 || req.SlotNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing room_no or slot_number in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Property.AssignParking(ctx, req.RoomNo, req.SlotNumber); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Room not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Place de parking réservée avec succès"})
}

// AvailableParkingSlots: GET /available-parking-slots.
func (h *PropertyHandler) AvailableParkingSlots(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	slots, err := h.Property.AvailableParkingSlots(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if slots == nil {
		slots = []string{}
	}
	return c.JSON(http.StatusOK, slots)
}

// AvailableRooms: GET /available-rooms.
func (h *PropertyHandler) AvailableRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Property.AvailableRooms(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if rooms == nil {
		rooms = []int64{}
	}
	return c.JSON(http.StatusOK, echo.Map{"availableRooms": rooms})
}

// OccupiedRooms: GET /occupied-rooms.
func (h *PropertyHandler) OccupiedRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Property.OccupiedRooms(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if rooms == nil {
		rooms = []int64{}
	}
	return c.JSON(http.StatusOK, rooms)
}

// AvailableBlocks: GET /available-blocks.
func (h *PropertyHandler) AvailableBlocks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	blocks, err := h.Property.Blocks(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if blocks == nil {
		blocks = []repository.Block{}
	}
	return c.JSON(http.StatusOK, blocks)
}

// BlockByRoom: POST /block {room_no}.
func (h *PropertyHandler) BlockByRoom(c echo.Context) error {
	var req struct {
		RoomNo int64 `json:"room_no"`
	}
	if err := c.Bind(&req); err != nil || req.RoomNo == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing room_no in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	block, err := h.Property.BlockByRoom(ctx, req.RoomNo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Block not found for the given room number"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, block)
}

// OwnerRoomDetails: POST /ownerroomdetails. Rooms owned by the caller.
func (h *PropertyHandler) OwnerRoomDetails(c echo.Context) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Property.RoomsOfOwner(ctx, uid.Num)
	if err != nil {
		return serverError(c, err)
	}
	if rooms == nil {
		rooms = []repository.Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}
