package routes

import (
	"net/http"

	"inkwell/app/config"
	"inkwell/app/controllers"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
)

// SetupRoutes wires repositories, services and controllers onto a router
// using the provided Badger DB and configuration.
func SetupRoutes(cfg *config.Config, db *badger.DB) *mux.Router {
	userRepo := repositories.NewBadgerUserRepository(db)
	categoryRepo := repositories.NewBadgerCategoryRepository(db)
	postRepo := repositories.NewBadgerPostRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	categoryService := services.NewCategoryService(categoryRepo)
	postService := services.NewPostService(postRepo, categoryService)

	authController := controllers.NewAuthController(authService)
	categoryController := controllers.NewCategoryController(categoryService)
	postController := controllers.NewPostController(postService, cfg.UploadDir)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Uploaded images are served statically by stored filename
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	api := router.PathPrefix("/api").Subrouter()
	requireAuth := middleware.RequireAuth(authService)
	requireAdmin := middleware.RequireRole(authService, models.RoleAdmin)

	// Auth endpoints
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authController.Register).Methods("POST")
	auth.HandleFunc("/login", authController.Login).Methods("POST")

	// Category endpoints: listing is public, creation is admin only
	api.HandleFunc("/categories", categoryController.Index).Methods("GET")
	api.Handle("/categories",
		requireAuth(requireAdmin(http.HandlerFunc(categoryController.Create)))).Methods("POST")

	// Post endpoints: reads are public, mutations need a caller identity
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.Handle("", requireAuth(http.HandlerFunc(postController.Create))).Methods("POST")
	posts.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(postController.Edit))).Methods("PUT")
	posts.Handle("/{id:[0-9]+}", requireAuth(http.HandlerFunc(postController.Delete))).Methods("DELETE")
	posts.Handle("/{id:[0-9]+}/comments",
		requireAuth(http.HandlerFunc(postController.AddComment))).Methods("POST")

	return router
}
