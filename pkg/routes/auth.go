package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marblecore/bluemarble-backend/app/controllers"
)

func AuthRoutes(a *fiber.App) {
	route := a.Group("/user")

	route.Post("/create", controllers.CreateUser)
	route.Post("/login", controllers.Login)
}
