package controllers

import (
	"github.com/gofiber/fiber/v2"

	"learning_platform/backend/middleware"
	"learning_platform/backend/services"
	"learning_platform/backend/utils"
)

type CoursesController struct {
	Catalog     *services.CatalogService
	Enrollments *services.EnrollmentService
}

func NewCoursesController(catalog *services.CatalogService, enrollments *services.EnrollmentService) *CoursesController {
	return &CoursesController{Catalog: catalog, Enrollments: enrollments}
}

// ListCourses godoc
// @Summary List published courses
// @Description Premium courses are listed only for callers with a valid subscription
// @Tags courses
// @Produce json
// @Param search query string false "Title or description substring"
// @Param sort query string false "newest (default) or popularity"
// @Success 200 {array} services.CourseSummary
// @Security ApiKeyAuth
// @Router /courses/ [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	filter := services.CourseFilter{Search: c.Query("search"), Sort: c.Query("sort", "newest")}
	if filter.Sort != "newest" && filter.Sort != "popularity" {
		return utils.BadRequest("sort must be newest or popularity")
	}
	courses, err := cc.Catalog.ListCourses(c.UserContext(), middleware.CurrentActor(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

// GetCourseDetails godoc
// @Summary Course detail with ordered lessons
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.CourseDetail
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	course, err := cc.Catalog.GetCourse(c.UserContext(), middleware.CurrentActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(course)
}

// CreateCourse godoc
// @Summary Create a course owned by the caller
// @Tags courses
// @Accept json
// @Produce json
// @Param input body services.CreateCourseInput true "Course data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/create/ [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input services.CreateCourseInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	course, err := cc.Catalog.CreateCourse(c.UserContext(), middleware.CurrentActor(c), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok", "course_id": course.ID})
}

// AddLesson godoc
// @Summary Append a lesson to one of the caller's courses
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body services.AddLessonInput true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/lessons/ [post]
func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var input services.AddLessonInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	lesson, err := cc.Catalog.AddLesson(c.UserContext(), middleware.CurrentActor(c), id, input)
	if err != nil {
		return err
	}
	return utils.Created(c, lesson)
}

// Enroll godoc
// @Summary Enroll the caller in a published course
// @Description Repeated calls return the existing enrollment with created=false
// @Tags courses
// @Accept json
// @Produce json
// @Param input body services.EnrollInput true "Course to enroll in"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /enroll/ [post]
func (cc *CoursesController) Enroll(c *fiber.Ctx) error {
	var input services.EnrollInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := cc.Enrollments.Enroll(c.UserContext(), middleware.CurrentActor(c), input.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "ok", "enrolled": true, "created": result.Created})
}

func (cc *CoursesController) MyCourses(c *fiber.Ctx) error {
	courses, err := cc.Enrollments.MyCourses(c.UserContext(), middleware.CurrentActor(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}
