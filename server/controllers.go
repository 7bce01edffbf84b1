package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/taskward/taskward/auth"
	"github.com/taskward/taskward/tasks"
)

func (s *Server) handleSignup(c *fiber.Ctx) error {
	payload := SignupRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	if _, err := s.deps.Register.Execute(c.UserContext(), auth.RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

func (s *Server) handleSignin(c *fiber.Ctx) error {
	payload := SigninRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	token, err := s.deps.Auth.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

func (s *Server) handleCreateTask(c *fiber.Ctx) error {
	payload := CreateTaskRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	task, err := s.deps.Tasks.Create(c.UserContext(), tasks.CreateTaskInput{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (s *Server) handleListTasks(c *fiber.Ctx) error {
	records, err := s.deps.Tasks.List(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(records)
}

func (s *Server) handleGetTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := s.deps.Tasks.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

func (s *Server) handleUpdateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	payload := UpdateTaskRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	task, err := s.deps.Tasks.Update(c.UserContext(), id, tasks.UpdateTaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      tasks.Status(payload.Status),
	})
	if err != nil {
		return err
	}

	return c.JSON(task)
}

func (s *Server) handleDeleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := s.deps.Tasks.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// taskID parses the :id route param. An unparsable id behaves like a
// task that does not exist.
func taskID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, tasks.ErrTaskNotFound
	}
	return id, nil
}
