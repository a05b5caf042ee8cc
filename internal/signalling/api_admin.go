package signalling

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/studiocast/relay/internal/api"
	"github.com/studiocast/relay/internal/domain"
)

func (s *Server) setupAdminApi() {
	s.app.Route("/api/admin", func(router fiber.Router) {
		router.Use(func(c *fiber.Ctx) error {
			if !s.auth.IsAdminAddr(c.Context().RemoteAddr().String()) {
				return c.Status(fiber.StatusForbidden).SendString("Forbidden. IP address black listed")
			}
			return c.Next()
		})

		router.Use(basicauth.New(basicauth.Config{
			Realm:      "Forbidden",
			Authorizer: s.auth.CheckAdminCredential,
		}))

		router.Get("/rooms", func(c *fiber.Ctx) error {
			return c.JSON(api.ToRoomStatuses(s.directory.Rooms()))
		})

		router.Get("/rooms/:roomId", func(c *fiber.Ctx) error {
			roomID := c.Params("roomId")
			members := s.directory.MembersOf(roomID, "")
			if len(members) == 0 {
				return c.Status(fiber.StatusNotFound).SendString("Room not found")
			}
			return c.JSON(api.RoomStatus{
				RoomID:      roomID,
				MemberCount: len(members),
				Members:     api.ToUserInfos(members),
			})
		})

		router.Post("/rooms/:roomId/close", func(c *fiber.Ctx) error {
			roomID := c.Params("roomId")
			if err := s.relay.CloseRoom(roomID); err != nil {
				if errors.Is(err, domain.ErrRoomNotFound) {
					return c.Status(fiber.StatusNotFound).SendString("Room not found")
				}
				return c.Status(fiber.StatusInternalServerError).SendString("Failed to close room")
			}
			return c.Status(fiber.StatusOK).SendString("Ok")
		})
	})
}
