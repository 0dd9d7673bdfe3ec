package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hotelapi/internal/service"
)

type scheduleRequest struct {
	EmployeeID int `json:"employee_id"`
	RoomNumber int `json:"room_number"`
	Priority   int `json:"priority"`
}

type workerRequest struct {
	EmployeeID int `json:"employee_id"`
}

func roomNumberParam(c *fiber.Ctx) (int, bool) {
	n, err := strconv.Atoi(c.Params("number"))
	return n, err == nil && n > 0
}

func pageQuery(c *fiber.Ctx) (service.Page, bool) {
	index, err := strconv.Atoi(c.Query("page", "0"))
	if err != nil {
		return service.Page{}, false
	}
	size, err := strconv.Atoi(c.Query("size", "0"))
	if err != nil {
		return service.Page{}, false
	}
	return service.Page{Index: index, Size: size}, true
}

func workerFromBody(c *fiber.Ctx) (int, error) {
	var req workerRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, &inputError{code: "INVALID_BODY", message: "invalid request body"}
	}
	if req.EmployeeID <= 0 {
		return 0, &inputError{code: "INVALID_EMPLOYEE_ID", message: "employee_id is required"}
	}
	return req.EmployeeID, nil
}

// ScheduleCleaning queues a room for cleaning.
//
// @Summary  Schedule a room cleaning
// @Tags     cleanings
// @Accept   json
// @Produce  json
// @Param    body body scheduleRequest true "assignee, room and priority"
// @Success  201 {object} model.CleaningTask
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /cleanings [post]
func ScheduleCleaning(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scheduleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if req.EmployeeID <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EMPLOYEE_ID", "employee_id is required")
		}
		if req.RoomNumber <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROOM_NUMBER", "room_number is required")
		}

		task, err := svc.ScheduleCleaning(c.UserContext(), req.EmployeeID, req.RoomNumber, req.Priority)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	}
}

// ListCleanings returns the work queue, highest priority first.
//
// @Summary  List scheduled cleanings
// @Tags     cleanings
// @Produce  json
// @Param    page query int false "zero-based page index"
// @Param    size query int false "page size (default 20, max 100)"
// @Success  200 {object} service.CleaningListResult
// @Failure  400 {object} errorPayload
// @Router   /cleanings [get]
func ListCleanings(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := pageQuery(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page or size")
		}
		res, err := svc.ListCleanings(c.UserContext(), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListEmployeeCleanings returns the queue restricted to one assignee.
//
// @Summary  List an employee's cleanings
// @Tags     cleanings
// @Produce  json
// @Param    id   path  int true  "employee id"
// @Param    page query int false "zero-based page index"
// @Param    size query int false "page size (default 20, max 100)"
// @Success  200 {object} service.CleaningListResult
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /employees/{id}/cleanings [get]
func ListEmployeeCleanings(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EMPLOYEE_ID", "invalid employee id")
		}
		page, ok := pageQuery(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page or size")
		}
		res, err := svc.ListByEmployee(c.UserContext(), id, page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetRoomCleaning returns the task scheduled for a room.
//
// @Summary  Get a room's scheduled cleaning
// @Tags     rooms
// @Produce  json
// @Param    number path int true "room number"
// @Success  200 {object} model.CleaningTask
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /rooms/{number}/cleaning [get]
func GetRoomCleaning(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, ok := roomNumberParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROOM_NUMBER", "invalid room number")
		}
		task, err := svc.FindByRoom(c.UserContext(), number)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(task)
	}
}

// RemoveRoomCleaning cancels a room's task and releases the room.
//
// @Summary  Cancel a room's scheduled cleaning
// @Tags     rooms
// @Param    number path int true "room number"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /rooms/{number}/cleaning [delete]
func RemoveRoomCleaning(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, ok := roomNumberParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROOM_NUMBER", "invalid room number")
		}
		if err := svc.RemoveCleaning(c.UserContext(), number); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// StartCleaning marks a scheduled room as being cleaned.
//
// @Summary  Start cleaning a room
// @Tags     rooms
// @Accept   json
// @Produce  json
// @Param    number path int           true "room number"
// @Param    body   body workerRequest true "worker"
// @Success  200 {object} model.Room
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /rooms/{number}/cleaning/start [post]
func StartCleaning(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, ok := roomNumberParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROOM_NUMBER", "invalid room number")
		}
		workerID, err := workerFromBody(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		room, err := svc.StartCleaning(c.UserContext(), workerID, number)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(room)
	}
}

// FinishCleaning completes a room's cleaning and marks it clean.
//
// @Summary  Finish cleaning a room
// @Tags     rooms
// @Accept   json
// @Produce  json
// @Param    number path int           true "room number"
// @Param    body   body workerRequest true "worker"
// @Success  200 {object} model.Room
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /rooms/{number}/cleaning/finish [post]
func FinishCleaning(svc service.CleaningService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, ok := roomNumberParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ROOM_NUMBER", "invalid room number")
		}
		workerID, err := workerFromBody(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		room, err := svc.FinishCleaning(c.UserContext(), workerID, number)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(room)
	}
}
