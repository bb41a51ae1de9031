package controllers

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learning_platform/backend/models"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	errRecordNotFound  = utils.NewError(utils.ErrNotFound, "Record not found")
	errDuplicate       = utils.NewError(utils.ErrConflict, "A record with the same unique value already exists")
	errBadReference    = utils.NewError(utils.ErrBadRequest, "Referenced record does not exist")
	errStillReferenced = utils.NewError(utils.ErrConflict, "Record is still referenced by other records")
)

// resource exposes list/get/create/update/delete for one model under the
// admin console.
type resource[T any] struct {
	db   *gorm.DB
	name string

	// search columns may live in joined tables; joins are added only for q.
	search []string
	joins  []string
	// filters maps a query parameter to the column it must equal.
	filters map[string]string
	// dated is the column bounded by ?from= and ?to= (YYYY-MM-DD, inclusive).
	dated string

	preload  []string
	order    string
	readOnly bool

	// beforeSave runs after the body is decoded and before the write.
	beforeSave   func(c *fiber.Ctx, item *T, creating bool) error
	beforeDelete func(tx *gorm.DB, id uint) error
}

func (r *resource[T]) resourceName() string { return r.name }

func (r *resource[T]) register(router fiber.Router) {
	g := router.Group("/" + r.name)
	g.Get("/", r.list)
	g.Get("/:id", r.get)
	if r.readOnly {
		return
	}
	g.Post("/", r.create)
	g.Put("/:id", r.update)
	g.Patch("/:id", r.update)
	g.Delete("/:id", r.delete)
}

func (r *resource[T]) list(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query, err := r.filter(c, r.db.WithContext(c.UserContext()).Model(new(T)))
	if err != nil {
		return err
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return errors.Wrapf(err, "count %s", r.name)
	}

	items := []T{}
	for _, p := range r.preload {
		query = query.Preload(p)
	}
	err = query.Order(r.order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error
	if err != nil {
		return errors.Wrapf(err, "list %s", r.name)
	}
	return utils.Paginate(c, items, total, page, pageSize)
}

// filter applies the q search, the equality filters and the date range.
func (r *resource[T]) filter(c *fiber.Ctx, query *gorm.DB) (*gorm.DB, error) {
	if q := strings.TrimSpace(c.Query("q")); q != "" && len(r.search) > 0 {
		for _, j := range r.joins {
			query = query.Joins(j)
		}
		pattern := utils.ContainsPattern(q)
		conds := make([]string, 0, len(r.search))
		args := make([]interface{}, 0, len(r.search))
		for _, col := range r.search {
			conds = append(conds, utils.LikeContains(col))
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	for param, col := range r.filters {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		var value interface{} = raw
		if strings.HasSuffix(param, "_id") {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, utils.BadRequest(param + " must be a positive integer")
			}
			value = id
		}
		query = query.Where(col+" = ?", value)
	}

	if r.dated != "" {
		if raw := c.Query("from"); raw != "" {
			from, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, utils.BadRequest("Invalid from date. Use YYYY-MM-DD")
			}
			query = query.Where(r.dated+" >= ?", from)
		}
		if raw := c.Query("to"); raw != "" {
			to, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return nil, utils.BadRequest("Invalid to date. Use YYYY-MM-DD")
			}
			query = query.Where(r.dated+" < ?", to.AddDate(0, 0, 1))
		}
	}
	return query, nil
}

func (r *resource[T]) find(c *fiber.Ctx, id uint) (*T, error) {
	item := new(T)
	query := r.db.WithContext(c.UserContext())
	for _, p := range r.preload {
		query = query.Preload(p)
	}
	if err := query.First(item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRecordNotFound
		}
		return nil, errors.Wrapf(err, "find %s", r.name)
	}
	return item, nil
}

func (r *resource[T]) get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := r.find(c, id)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (r *resource[T]) create(c *fiber.Ctx) error {
	item := new(T)
	if err := c.BodyParser(item); err != nil {
		return utils.BadRequest("Cannot parse JSON")
	}
	setID(item, 0)
	if err := r.prepare(c, item, true); err != nil {
		return err
	}
	if err := r.db.WithContext(c.UserContext()).Omit(clause.Associations).Create(item).Error; err != nil {
		return r.writeError(err)
	}
	return utils.Created(c, item)
}

func (r *resource[T]) update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := r.find(c, id)
	if err != nil {
		return err
	}
	if err := c.BodyParser(item); err != nil {
		return utils.BadRequest("Cannot parse JSON")
	}
	setID(item, id)
	if err := r.prepare(c, item, false); err != nil {
		return err
	}
	if err := r.db.WithContext(c.UserContext()).Omit(clause.Associations).Save(item).Error; err != nil {
		return r.writeError(err)
	}
	return c.JSON(item)
}

// prepare runs the resource hook and then the model's validate tags.
func (r *resource[T]) prepare(c *fiber.Ctx, item *T, creating bool) error {
	if r.beforeSave != nil {
		if err := r.beforeSave(c, item, creating); err != nil {
			return err
		}
	}
	return utils.Validate.Struct(item)
}

func (r *resource[T]) delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = r.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if r.beforeDelete != nil {
			if err := r.beforeDelete(tx, id); err != nil {
				return err
			}
		}
		res := tx.Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errStillReferenced
	}
	if err != nil {
		return err
	}
	return utils.NoContent(c)
}

func (r *resource[T]) writeError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errBadReference
	}
	return errors.Wrapf(err, "save %s", r.name)
}

// setID overwrites the primary key so a body can never retarget a write.
func setID(item interface{}, id uint) {
	f := reflect.ValueOf(item).Elem().FieldByName("ID")
	if f.IsValid() && f.CanSet() {
		f.SetUint(uint64(id))
	}
}

type userBody struct {
	Password string `json:"password"`
	IsActive *bool  `json:"is_active"`
}

// prepareUser fills create defaults and turns a posted plain password into a
// hash. Creating a user requires a password; on update it is optional.
func prepareUser(c *fiber.Ctx, user *models.User, creating bool) error {
	var body userBody
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest("Cannot parse JSON")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if creating {
		if user.Role == "" {
			user.Role = models.RoleStudent
		}
		if body.IsActive == nil {
			user.IsActive = true
		}
	}

	if body.Password == "" {
		if creating {
			return utils.BadRequest("password is required")
		}
		return nil
	}
	if len(body.Password) < 6 {
		return utils.BadRequest("password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.PasswordHash = hash
	return nil
}

type adminResource interface {
	resourceName() string
	register(router fiber.Router)
}

func adminResources(db *gorm.DB) []adminResource {
	return []adminResource{
		&resource[models.User]{
			db: db, name: "users", search: []string{"name", "email"},
			filters: map[string]string{"role": "role"}, dated: "created_at",
			order: "id", beforeSave: prepareUser,
		},
		&resource[models.Course]{
			db: db, name: "courses",
			search: []string{"courses.title", "courses.description", "instructors.name"},
			joins:  []string{"LEFT JOIN users AS instructors ON instructors.id = courses.instructor_id"},
			filters: map[string]string{
				"status":        "courses.status",
				"instructor_id": "courses.instructor_id",
			},
			dated: "courses.created_at", preload: []string{"Instructor"}, order: "courses.id",
			beforeSave: func(c *fiber.Ctx, course *models.Course, creating bool) error {
				if creating && course.Status == "" {
					course.Status = models.CourseStatusDraft
				}
				return nil
			},
		},
		&resource[models.Lesson]{
			db: db, name: "lessons", search: []string{"title"},
			filters: map[string]string{"course_id": "course_id"},
			order:   "course_id, " + models.LessonOrdering,
		},
		&resource[models.Enrollment]{
			db: db, name: "enrollments",
			search: []string{"users.name", "users.email", "courses.title"},
			joins: []string{
				"LEFT JOIN users ON users.id = enrollments.user_id",
				"LEFT JOIN courses ON courses.id = enrollments.course_id",
			},
			filters: map[string]string{
				"user_id":   "enrollments.user_id",
				"course_id": "enrollments.course_id",
			},
			dated: "enrollments.enrolled_on", preload: []string{"User", "Course"},
			order: "enrollments.enrolled_on DESC, enrollments.id DESC",
		},
		&resource[models.Progress]{
			db: db, name: "progress",
			search: []string{"users.name", "users.email", "courses.title"},
			joins: []string{
				"LEFT JOIN enrollments ON enrollments.id = progress.enrollment_id",
				"LEFT JOIN users ON users.id = enrollments.user_id",
				"LEFT JOIN courses ON courses.id = enrollments.course_id",
			},
			filters: map[string]string{"enrollment_id": "progress.enrollment_id"},
			preload: []string{"Enrollment"}, order: "progress.id",
		},
		&resource[models.Plan]{
			db: db, name: "plans", search: []string{"name"}, order: "price, id",
			beforeDelete: services.EnsurePlanUnused,
		},
		&resource[models.Subscription]{
			db: db, name: "subscriptions",
			search: []string{"subscriptions.status", "users.name", "users.email", "plans.name"},
			joins: []string{
				"LEFT JOIN users ON users.id = subscriptions.user_id",
				"LEFT JOIN plans ON plans.id = subscriptions.plan_id",
			},
			filters: map[string]string{
				"status":  "subscriptions.status",
				"user_id": "subscriptions.user_id",
				"plan_id": "subscriptions.plan_id",
			},
			dated: "subscriptions.start_date", preload: []string{"User", "Plan"},
			order: "subscriptions.start_date DESC, subscriptions.id DESC",
			beforeSave: func(c *fiber.Ctx, sub *models.Subscription, creating bool) error {
				if creating && sub.Status == "" {
					sub.Status = models.SubscriptionActive
				}
				return nil
			},
		},
		&resource[models.Payment]{
			db: db, name: "payments",
			search: []string{"users.name", "users.email", "plans.name"},
			joins: []string{
				"LEFT JOIN users ON users.id = payments.user_id",
				"LEFT JOIN plans ON plans.id = payments.plan_id",
			},
			filters: map[string]string{
				"user_id": "payments.user_id",
				"plan_id": "payments.plan_id",
			},
			dated: "payments.payment_date", preload: []string{"User", "Plan"},
			order: "payments.payment_date DESC, payments.id DESC",
		},
		&resource[models.Notification]{
			db: db, name: "notifications", search: []string{"message"},
			filters: map[string]string{"user_id": "user_id"}, dated: "created_at",
			preload: []string{"User"}, order: "created_at DESC, id DESC",
		},
		&resource[models.ActivityLog]{
			db: db, name: "activity-logs", search: []string{"action_type", "details"},
			filters: map[string]string{"user_id": "user_id", "action_type": "action_type"},
			dated:   "timestamp", preload: []string{"User"}, order: "timestamp DESC, id DESC",
		},
		&resource[models.AnalyticsRecord]{
			db: db, name: "analytics-records", search: []string{"most_popular_course"},
			dated: "date", order: "date DESC", readOnly: true,
		},
	}
}
