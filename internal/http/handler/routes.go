package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hammercms/internal/auth"
	"hammercms/internal/http/middleware"
	"hammercms/internal/model"
	"hammercms/internal/service"
	"hammercms/internal/slug"
)

// Deps bundles everything the HTTP layer needs. Handlers stay thin: parse,
// call a service, translate the error.
type Deps struct {
	DB       *sql.DB
	Catalog  service.CatalogService
	Insights service.InsightService
	Media    service.MediaService
	Contact  service.ContactService
	Auth     *auth.Authenticator
}

// RegisterRoutes attaches the public site API and the staff dashboard API
// to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	registerDocs(app)
	registerHealth(app, deps.DB)
	registerPublic(app, deps)
	registerDashboard(app, deps)
}

func registerDocs(app *fiber.App) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})
}

func registerHealth(app *fiber.App, db *sql.DB) {
	// Readiness: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
}

func registerPublic(app *fiber.App, deps Deps) {
	app.Get("/services", func(c *fiber.Ctx) error {
		services, err := deps.Catalog.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": services})
	})

	app.Get("/services/:slug", func(c *fiber.Ctx) error {
		detail, err := deps.Catalog.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(detail)
	})

	// Published articles only; drafts live under /dashboard/insights.
	app.Get("/insights", func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := deps.Insights.List(c.UserContext(), service.InsightListFilter{
			ServiceSlug:   c.Query("service"),
			PublishedOnly: true,
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/insights/:slug", func(c *fiber.Ctx) error {
		detail, err := deps.Insights.GetPublishedBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(detail)
	})

	app.Get("/projects", func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := deps.Catalog.ListProjects(c.UserContext(), service.ProjectListFilter{
			ServiceSlug: c.Query("service"),
			Limit:       limit,
			Offset:      offset,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})

	app.Post("/contact", contactHandler(deps.Contact))
	app.Post("/auth/login", loginHandler(deps.Auth))
}

func registerDashboard(app *fiber.App, deps Deps) {
	dash := app.Group("/dashboard", middleware.RequireStaff(deps.Auth.Verify))

	// Division pages
	dash.Get("/services", func(c *fiber.Ctx) error {
		services, err := deps.Catalog.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"data": services})
	})
	dash.Post("/services", func(c *fiber.Ctx) error {
		var in service.ServiceInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		svc, err := deps.Catalog.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(svc)
	})
	dash.Get("/services/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		svc, err := deps.Catalog.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(svc)
	})
	dash.Put("/services/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var in service.ServiceInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		svc, err := deps.Catalog.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(svc)
	})
	dash.Delete("/services/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := deps.Catalog.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	dash.Get("/services/:id/content", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		content, err := deps.Catalog.GetContent(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(content)
	})
	dash.Put("/services/:id/content", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var in service.ServiceContentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		content, err := deps.Catalog.ReplaceContent(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(content)
	})

	// Articles, drafts included
	dash.Get("/insights", func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := deps.Insights.List(c.UserContext(), service.InsightListFilter{
			ServiceID: c.Query("service_id"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})
	dash.Post("/insights", func(c *fiber.Ctx) error {
		var in service.InsightInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		ins, err := deps.Insights.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ins)
	})
	dash.Post("/insights/import", func(c *fiber.Ctx) error {
		var in service.InsightImport
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		ins, err := deps.Insights.ImportHTML(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(ins)
	})
	dash.Get("/insights/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		ins, err := deps.Insights.Get(c.UserContext(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(ins)
	})
	dash.Put("/insights/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var in service.InsightInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		ins, err := deps.Insights.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(ins)
	})
	dash.Patch("/insights/:id/published", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		var body struct {
			Published bool `json:"published"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		ins, err := deps.Insights.SetPublished(c.UserContext(), id, body.Published)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(ins)
	})
	dash.Delete("/insights/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := deps.Insights.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Media assets (multipart/form-data, field name: file)
	dash.Get("/media", func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return err
		}
		res, err := deps.Media.List(c.UserContext(), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	})
	dash.Post("/media", func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		asset, err := deps.Media.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(asset)
	})
	dash.Delete("/media/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c)
		if err != nil {
			return err
		}
		if err := deps.Media.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func contactHandler(contact service.ContactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sub model.ContactSubmission
		if err := c.BodyParser(&sub); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if err := contact.Submit(c.UserContext(), sub); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "received"})
	}
}

func loginHandler(a *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		token, err := a.Login(body.Email, body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"token": token})
	}
}

// idParam validates the :id route parameter as a UUID. The returned error
// is a *fiber.Error rendered by the global error handler.
func idParam(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid id format")
	}
	return id, nil
}

// pageParams parses limit/offset query parameters with defaults. The
// returned error is a *fiber.Error rendered by the global error handler.
func pageParams(c *fiber.Ctx) (int, int, error) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "invalid offset")
	}
	return limit, offset, nil
}

// serviceError translates use-case errors to the standard envelope.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrIDRequired),
		errors.Is(err, service.ErrSlugRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidSubmission):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrSpamDetected):
		return writeError(c, fiber.StatusBadRequest, "SPAM_DETECTED", "spam detected")
	case errors.Is(err, slug.ErrExhausted):
		return writeError(c, fiber.StatusConflict, "SLUG_EXHAUSTED", "could not allocate a unique slug")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
