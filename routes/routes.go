package routes

import (
	"github.com/badarts/club-backend/handlers"
	"github.com/badarts/club-backend/middleware"
	"github.com/badarts/club-backend/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Participant  *handlers.ParticipantHandler
	Structure    *handlers.StructureHandler
	Match        *handlers.MatchHandler
	Leaderboard  *handlers.LeaderboardHandler
	Official     *handlers.OfficialLeaderboardHandler
	Event        *handlers.EventHandler
	Licence      *handlers.LicenceHandler
	Inscription  *handlers.InscriptionHandler
	Payment      *handlers.PaymentHandler
	Notify       *handlers.NotifyHandler
	Admin        *handlers.AdminHandler
	WebSocket    *handlers.WebSocketHandler
	Shop         *handlers.ShopHandler
}

// Options configures the cross-cutting parts of the router.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Signature", "Stripe-Signature"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleEditor)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Get("/refresh-tokens", h.Auth.ListRefreshTokens)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/me", h.User.GetMe)
		r.Patch("/me", h.User.UpdateMe)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.User.List)
			r.Post("/", h.User.Create)
			r.Get("/{id}", h.User.GetByID)
			r.Patch("/{id}", h.User.Update)
			r.Delete("/{id}", h.User.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.List)
		r.Get("/leaderboard/season/{season}", h.Leaderboard.Season)
		r.Get("/matches/tournament/{tournament_id}", h.Match.ListByTournament)

		r.Route("/{tournament_id}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetByID)
			r.Get("/details", h.Tournament.Details)
			r.Get("/leaderboard", h.Leaderboard.Tournament)
			r.Get("/pools-leaderboard", h.Leaderboard.Pools)
			r.Get("/participants", h.Participant.List)
			r.Get("/pools", h.Structure.ListPools)
			r.Get("/registered-users", h.Registration.RegisteredUsers)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/register", h.Registration.Register)
				r.Delete("/register", h.Registration.Unregister)
				r.Get("/my-registration", h.Registration.MyRegistration)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(adminOnly)
				r.Delete("/registrations/{user_id}", h.Registration.RemoveUser)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(staffOnly)
				r.Patch("/", h.Tournament.Update)
				r.Delete("/", h.Tournament.Delete)
				r.Patch("/registrations/open", h.Tournament.OpenRegistrations)
				r.Patch("/registrations/close", h.Tournament.CloseRegistrations)
				r.Post("/reset", h.Tournament.Reset)

				r.Post("/participants", h.Participant.Create)
				r.Delete("/participants/{participant_id}", h.Participant.Delete)
				r.Post("/swap-players", h.Participant.SwapPlayers)

				r.Post("/pools", h.Structure.CreatePool)
				r.Post("/pools/generate", h.Structure.GeneratePools)
				r.Post("/finals/generate", h.Structure.GenerateFinals)
				r.Post("/finals/advance", h.Structure.AdvanceFinals)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)
			r.Post("/", h.Tournament.Create)

			r.Post("/matches", h.Match.Create)
			r.Post("/matches/", h.Match.Create)
			r.Patch("/matches/{match_id}", h.Match.Update)
			r.Post("/matches/{match_id}/cancel", h.Match.Cancel)
			r.Delete("/matches/{match_id}", h.Match.Delete)
		})
	})

	router.Route("/leaderboard/{board}", func(r chi.Router) {
		r.Get("/", h.Official.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/update", h.Official.Update)
		})
	})

	router.Route("/api/printful", func(r chi.Router) {
		r.Get("/health", h.Shop.Health)
		r.Get("/store/products", h.Shop.Products)
		r.Get("/store/products/{product_id}", h.Shop.Product)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/orders", h.Shop.CreateOrder)
			r.Post("/orders/{order_id}/confirm", h.Shop.ConfirmOrder)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Get("/", h.Event.List)
		r.Get("/{id}", h.Event.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)
			r.Post("/", h.Event.Create)
			r.Patch("/{id}", h.Event.Update)
			r.Delete("/{id}", h.Event.Delete)
		})
	})

	router.Route("/licences", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", h.Licence.Mine)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Licence.Create)
			r.Get("/", h.Licence.List)
			r.Post("/bulk-create", h.Licence.BulkCreate)
			r.Get("/{id}", h.Licence.GetByID)
			r.Put("/{id}", h.Licence.Update)
			r.Delete("/{id}", h.Licence.Delete)
		})
	})

	router.Route("/inscriptions", func(r chi.Router) {
		r.Get("/active", h.Inscription.Active)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", h.Inscription.Mine)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)
			r.Post("/", h.Inscription.Create)
			r.Get("/", h.Inscription.List)
			r.Delete("/", h.Inscription.DeleteAll)
			r.Post("/bulk-import", h.Inscription.BulkImport)
			r.Post("/bulk-import/sheets", h.Inscription.ImportSheet)
			r.Get("/{id}", h.Inscription.GetByID)
			r.Put("/{id}", h.Inscription.Update)
			r.Delete("/{id}", h.Inscription.Delete)
		})
	})

	router.Route("/payments", func(r chi.Router) {
		r.Post("/tournament_webhook", h.Payment.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/pay_for_tournament/{tournament_id}", h.Payment.PayForTournament)
			r.Get("/check/{tournament_id}", h.Payment.Check)
		})
	})

	router.With(authenticate, adminOnly).Post("/notify", h.Notify.Send)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Post("/backup", h.Admin.CreateBackup)
		r.Get("/backups", h.Admin.ListBackups)
		r.Get("/backup/{filename}", h.Admin.DownloadBackup)
		r.Delete("/backup/{filename}", h.Admin.DeleteBackup)
	})
}
