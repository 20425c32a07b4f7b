package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
	"github.com/VladKovDev/tguser-api/internal/services"
	"github.com/VladKovDev/tguser-api/internal/services/validation"
	"github.com/VladKovDev/tguser-api/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

const collectionPath = "/telegram_users"

type TelegramUserHandler struct {
	users  *services.TelegramUserService
	logger logger.Logger
}

func NewTelegramUserHandler(users *services.TelegramUserService, logger logger.Logger) *TelegramUserHandler {
	return &TelegramUserHandler{
		users:  users,
		logger: logger,
	}
}

// Register mounts the collection and item routes on r. Authentication is the
// caller's concern.
func (h *TelegramUserHandler) Register(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}

type CollectionResponse struct {
	TotalItems int64                  `json:"totalItems"`
	Items      []*entity.TelegramUser `json:"items"`
	View       CollectionView         `json:"view"`
}

type CollectionView struct {
	ID       string `json:"id"`
	First    string `json:"first"`
	Last     string `json:"last"`
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

func (h *TelegramUserHandler) List(c *fiber.Ctx) error {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return services.ErrInvalidPage
		}
		page = n
	}

	result, err := h.users.List(c.UserContext(), page)
	if err != nil {
		return err
	}

	return c.JSON(CollectionResponse{
		TotalItems: result.TotalItems,
		Items:      result.Items,
		View:       collectionView(result),
	})
}

func (h *TelegramUserHandler) Get(c *fiber.Ctx) error {
	id, err := telegramID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *TelegramUserHandler) Create(c *fiber.Ctx) error {
	draft, err := validation.DecodeCreate(c.Body())
	if err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), draft)
	if err != nil {
		return err
	}
	c.Location(itemPath(user.TelegramID))
	return c.Status(http.StatusCreated).JSON(user)
}

func (h *TelegramUserHandler) Update(c *fiber.Ctx) error {
	id, err := telegramID(c)
	if err != nil {
		return err
	}
	patch, err := validation.DecodePatch(c.Body(), id)
	if err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *TelegramUserHandler) Delete(c *fiber.Ctx) error {
	id, err := telegramID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// telegramID parses the :id segment. Anything that is not an integer cannot
// name a record, so it is a 404 rather than a 400.
func telegramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad telegram id %q: %w", c.Params("id"), entity.ErrNotFound)
	}
	return id, nil
}

func itemPath(id int64) string {
	return collectionPath + "/" + strconv.FormatInt(id, 10)
}

func pagePath(n int) string {
	return collectionPath + "?page=" + strconv.Itoa(n)
}

func collectionView(p services.Page) CollectionView {
	last := p.LastPage()
	v := CollectionView{
		ID:    pagePath(p.Number),
		First: pagePath(1),
		Last:  pagePath(last),
	}
	if p.Number > 1 {
		v.Previous = pagePath(min(p.Number-1, last))
	}
	if p.Number < last {
		v.Next = pagePath(p.Number + 1)
	}
	return v
}
