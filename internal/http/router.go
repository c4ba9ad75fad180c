package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"curio/internal/auth"
	"curio/internal/config"
	"curio/internal/http/handler"
	mw "curio/internal/http/middleware"
	"curio/internal/item"
	"curio/internal/tag"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	userSvc := &auth.Service{DB: db}
	tagSvc := &tag.Service{DB: db}
	itemSvc := &item.Service{DB: db}

	requireAuth := auth.RequireAuth(jwtSvc, userSvc)

	ah := &handler.AuthHandler{Users: userSvc, JWT: jwtSvc, Logger: logger}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{Users: userSvc, Logger: logger}
	r.Route("/me", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", me.Me)
		r.Patch("/", me.UpdateMe)
		r.Put("/password", me.UpdatePassword)
	})

	uh := &handler.UsersHandler{Users: userSvc, Logger: logger}
	r.Route("/users", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(auth.RequireSuperuser)
		r.Get("/", uh.List)
		r.Post("/", uh.Create)
		r.Get("/{id}", uh.Get)
		r.Delete("/{id}", uh.Delete)
	})

	ih := &handler.ItemsHandler{Items: itemSvc, Logger: logger}
	r.Route("/items", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", ih.List)
		r.Post("/", ih.Create)
		r.Get("/{id}", ih.Get)
		r.Put("/{id}", ih.Update)
		r.Delete("/{id}", ih.Delete)
	})

	th := &handler.TagsHandler{Tags: tagSvc, Items: itemSvc, Logger: logger}
	r.Route("/tags", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", th.List)
		r.Post("/", th.Create)
		r.Get("/{id}", th.Get)
		r.Put("/{id}", th.Update)
		r.Delete("/{id}", th.Delete)
		r.Get("/{id}/items", th.ListItems)
	})

	return r
}
