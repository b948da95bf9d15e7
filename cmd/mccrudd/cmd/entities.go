package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/actions"
	"github.com/materials-commons/mccrud/pkg/crud/buttons"
	"github.com/materials-commons/mccrud/pkg/crud/columns"
	"github.com/materials-commons/mccrud/pkg/crud/fields"
	"github.com/materials-commons/mccrud/pkg/crud/jsfunc"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

var exportActions = map[string]crud.Action{
	"csv":  actions.CSVExport,
	"xml":  actions.XMLExport,
	"json": actions.JSONExport,
	"yaml": actions.YAMLExport,
}

func newService(settings *config.Settings, db *gorm.DB) (*crud.Service, error) {
	menu, err := crud.ParseMenu(settings.Menu)
	if err != nil {
		return nil, err
	}

	if len(menu) == 0 {
		menu = []crud.MenuEntry{{Entity: "users"}, {Entity: "projects"}, {Entity: "log-levels", Title: "Logging"}}
	}

	service := crud.NewService(settings.URI, settings.Dashboard, menu...)
	err = service.Register(
		usersEntity(db),
		projectsEntity(db),
		logLevelsEntity(),
	)

	return service, err
}

func usersEntity(db *gorm.DB) *crud.Entity {
	return &crud.Entity{
		Name:          "User",
		NewRepository: repository.GormFactory[mcmodel.User](db),
		Form: func(f *fields.Factory) {
			f.Input("name", "Name").Required("Please enter a name")
			f.Input("email", "Email").Required("Please enter an email")
			f.Input("password", "Password").SetAttr("type", "password")
			f.Switch("is_admin", "Admin").SetDefault(false)
		},
		SearchForm: func(f *fields.Factory) {
			f.Input("search", "Search").Placeholder("Name or email")
			f.Select("is_admin", "Admin",
				fields.Option{Label: "Yes", Value: "1"},
				fields.Option{Label: "No", Value: "0"})
		},
		Columns: func(f *columns.Factory) {
			f.Selection()
			f.Col("id", "ID", "").Sortable("custom").Width("80")
			display := f.Col("display", "User", "").Computed(func(record map[string]any) any {
				return fmt.Sprintf("%v <%v>", record["name"], record["email"])
			})
			if formatter, err := jsfunc.File("users.display"); err == nil {
				display.Formatter(formatter)
			}
			f.Boolean("is_admin", "Admin")
			f.Col("created_at", "Created", "").Sortable("custom")
		},
		WithComputedOn: []string{crud.ComputedOnColumns},
		Rules: func(id string) map[string]string {
			password := "required,min=8"
			if id != "" {
				password = "omitempty,min=8"
			}

			return map[string]string{
				"name":     "required,max=255",
				"email":    "required,email",
				"password": password,
			}
		},
		ExtraButtons: []buttons.Button{
			buttons.NewActionButton("csv").SetText("CSV").Selection().External(),
		},
		Actions: map[string]crud.Action{
			"csv":  actions.CSVExport,
			"json": actions.JSONExport,
		},
	}
}

func projectsEntity(db *gorm.DB) *crud.Entity {
	projectActions := map[string]crud.Action{"archive": archiveProjects(db)}
	for name, action := range exportActions {
		projectActions[name] = action
	}

	return &crud.Entity{
		Name: "Project",
		NewRepository: func() repository.Repository {
			return repository.NewGormRepository[mcmodel.Project](db).With("Owner")
		},
		Form: func(f *fields.Factory) {
			f.Input("name", "Name").Required("Please enter a name")
			f.Input("description", "Description").SetAttr("type", "textarea")
			f.Select("owner_id", "Owner").Required("Please select an owner").SetOptionsFunc(userOptions(db))
		},
		SearchForm: func(f *fields.Factory) {
			f.Input("name", "Name")
			f.Select("owner_id", "Owner").SetOptionsFunc(userOptions(db))
			f.Select("is_archived", "Archived",
				fields.Option{Label: "Yes", Value: "1"},
				fields.Option{Label: "No", Value: "0"})
		},
		Columns: func(f *columns.Factory) {
			f.Selection()
			f.Col("id", "ID", "").Sortable("custom").Width("80")
			f.Col("name", "Name", "").Sortable("custom")
			f.Col("owner_name", "Owner", "").Computed(func(record map[string]any) any {
				if owner, ok := record["owner"].(map[string]any); ok {
					return owner["name"]
				}
				return nil
			})
			f.Col("file_count", "Files", "")
			f.Boolean("is_archived", "Archived")
			f.Col("created_at", "Created", "").Sortable("custom")
		},
		WithComputedOn:            []string{crud.ComputedOnColumns},
		PaginationSizeMultipliers: []int{1, 2, 5},
		ExtraButtons: []buttons.Button{
			buttons.NewActionButton("archive").Selection().Confirm("Archive the selected projects?"),
		},
		HeaderButtons: []buttons.Button{
			buttons.NewActionButton("csv").SetText("CSV").Search().External(),
			buttons.NewActionButton("xml").SetText("XML").Search().External(),
			buttons.NewActionButton("yaml").SetText("YAML").Search().External(),
		},
		Actions: projectActions,
	}
}

// logLevelsEntity lists the logging contexts. Levels are changed through the
// _log route.
func logLevelsEntity() *crud.Entity {
	return &crud.Entity{
		Name:     "LogLevel",
		Resource: "log-levels",
		NewRepository: repository.CallbackFactory(func(_ context.Context) ([]map[string]any, error) {
			var records []map[string]any
			for _, level := range clog.Levels() {
				records = append(records, map[string]any{"ctx": level.Ctx, "level": level.Level})
			}
			return records, nil
		}, "ctx"),
		Operations:     string(crud.OpRead),
		PaginationSize: -1,
		Columns: func(f *columns.Factory) {
			f.Col("ctx", "Context", "")
			f.Col("level", "Level", "")
		},
	}
}

func userOptions(db *gorm.DB) func() []fields.Option {
	return func() []fields.Option {
		var users []mcmodel.User
		if err := db.Select("id", "name").Order("name").Find(&users).Error; err != nil {
			clog.UsingCtx("users").Errorf("loading user options: %s", err)
			return nil
		}

		options := make([]fields.Option, len(users))
		for i, u := range users {
			options[i] = fields.Option{Label: u.Name, Value: u.ID}
		}

		return options
	}
}

// archiveProjects marks the selected projects archived.
func archiveProjects(db *gorm.DB) crud.Action {
	return func(c echo.Context, e *crud.Entity, id string) error {
		ids := repository.SplitIDs(id)
		if id == "action" || len(ids) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "select the projects to archive")
		}

		projectIDs := make([]int, 0, len(ids))
		for _, projectID := range ids {
			n, err := strconv.Atoi(projectID)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid project id '%s'", projectID))
			}
			projectIDs = append(projectIDs, n)
		}

		var archived int64
		err := mcdb.WithTxRetry(db.WithContext(c.Request().Context()), func(tx *gorm.DB) error {
			result := tx.Model(&mcmodel.Project{}).
				Where("id IN ?", projectIDs).
				Where("is_archived = ?", false).
				Updates(map[string]any{"is_archived": true, "archived_at": time.Now()})
			archived = result.RowsAffected
			return result.Error
		})

		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		clog.UsingCtx(e.ResourceName()).WithField("ids", id).Infof("archived %d projects", archived)

		return c.JSON(http.StatusOK, map[string]any{"archived": archived})
	}
}
