package FiberConfig

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"

	"Checkpoint/Controllers"
	"Checkpoint/History"
	"Checkpoint/OfflineQueue"
	"Checkpoint/SheetApi"
	"Checkpoint/Submission"
	"Checkpoint/middleware"
)

// Deps bundles the wired services the routes need. main builds them once and
// passes them down instead of reaching for globals.
type Deps struct {
	DB          *gorm.DB
	Client      *SheetApi.Client
	Source      *History.RemoteSource
	Store       *OfflineQueue.Store
	Coordinator *OfflineQueue.Coordinator
	Service     *Submission.Service
	Online      func() bool
}

func SetupRoutes(app *fiber.App, deps Deps) {
	// Initialize handlers
	authController := Controllers.NewAuthController(deps.DB, deps.Client)
	checklistController := Controllers.NewChecklistController(deps.Service, deps.Source, deps.Client)
	syncController := Controllers.NewSyncController(deps.Coordinator, deps.Store, deps.Online)

	// Status page
	app.Get("/", func(c *fiber.Ctx) error {
		pending, _ := deps.Store.Count()
		return c.Render("index", fiber.Map{
			"Pending":    pending,
			"Online":     deps.Online(),
			"Configured": deps.Client.Configured(),
		})
	})

	// API group
	api := app.Group("/api")

	// Auth routes
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/user", middleware.Verify(0), authController.User)
	api.Post("/password", middleware.Verify(0), authController.UpdatePassword)
	api.Get("/users", middleware.Verify(1), authController.Users)

	// Checklist routes
	checklists := api.Group("/checklists", middleware.Verify(1))
	checklists.Get("/templates/:type", checklistController.GetTemplate)
	checklists.Post("/", checklistController.Submit)

	// History routes
	history := api.Group("/history", middleware.Verify(1))
	history.Get("/", checklistController.GetHistory)
	history.Get("/summary", checklistController.Summary)
	history.Get("/:id", checklistController.GetDetail)
	history.Post("/:id/verify", middleware.Verify(2), checklistController.Verify)
	history.Delete("/:id", middleware.Verify(2), checklistController.Delete)

	// Sync routes
	sync := api.Group("/sync", middleware.Verify(1))
	sync.Post("/", syncController.SyncNow)
	sync.Get("/status", syncController.Status)
}

func FiberConfig(deps Deps) {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Fatal(app.Listen(":" + port))
}
