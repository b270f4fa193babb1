package service

import (
	"context"
	"encoding/json"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	adminDashboardCacheKey = "lms:dashboard:admin"
	dashboardCacheTTL      = 5 * time.Minute
)

type ReportService struct {
	ReportRepo            *repository.ReportRepository
	EnrollmentRepo        *repository.EnrollmentRepository
	AttendanceRepo        *repository.AttendanceRepository
	TrainerAttendanceRepo *repository.TrainerAttendanceRepository
	StudentRepo           *repository.StudentRepository
	InstructorRepo        *repository.InstructorRepository
	CourseRepo            *repository.CourseRepository
	MaterialRepo          *repository.MaterialRepository
	VideoRepo             *repository.VideoRepository
	SubmissionRepo        *repository.SubmissionRepository
	Redis                 *redis.Client
}

func NewReportService(
	reportRepo *repository.ReportRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	attendanceRepo *repository.AttendanceRepository,
	trainerAttendanceRepo *repository.TrainerAttendanceRepository,
	studentRepo *repository.StudentRepository,
	instructorRepo *repository.InstructorRepository,
	courseRepo *repository.CourseRepository,
	materialRepo *repository.MaterialRepository,
	videoRepo *repository.VideoRepository,
	submissionRepo *repository.SubmissionRepository,
	redisClient *redis.Client,
) *ReportService {
	return &ReportService{
		ReportRepo:            reportRepo,
		EnrollmentRepo:        enrollmentRepo,
		AttendanceRepo:        attendanceRepo,
		TrainerAttendanceRepo: trainerAttendanceRepo,
		StudentRepo:           studentRepo,
		InstructorRepo:        instructorRepo,
		CourseRepo:            courseRepo,
		MaterialRepo:          materialRepo,
		VideoRepo:             videoRepo,
		SubmissionRepo:        submissionRepo,
		Redis:                 redisClient,
	}
}

// StatusBreakdown counts attendance records per status for one day.
type StatusBreakdown struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Excused int64 `json:"excused"`
	Total   int64 `json:"total"`
}

type DailyAttendanceReport struct {
	Date     string                    `json:"date"`
	Students StatusBreakdown           `json:"students"`
	Trainers StatusBreakdown           `json:"trainers"`
	Records  []model.Attendance        `json:"records"`
	Trainer  []model.TrainerAttendance `json:"trainer_records"`
}

// DailyAttendance summarizes one day's attendance across all courses.
// A day with no records yields all-zero breakdowns, not an error.
func (s *ReportService) DailyAttendance(actor model.Actor, date string) (*DailyAttendanceReport, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	day, err := util.ParseSessionDate(date)
	if err != nil {
		return nil, err
	}

	report := &DailyAttendanceReport{Date: SessionDate(day)}

	statuses := []model.AttendanceStatus{
		model.AttendancePresent, model.AttendanceAbsent,
		model.AttendanceLate, model.AttendanceExcused,
	}
	for _, status := range statuses {
		count, err := s.AttendanceRepo.CountByDateAndStatus(day, status)
		if err != nil {
			return nil, err
		}
		applyStatusCount(&report.Students, status, count)

		trainerCount, err := s.TrainerAttendanceRepo.CountByDateAndStatus(day, status)
		if err != nil {
			return nil, err
		}
		applyStatusCount(&report.Trainers, status, trainerCount)
	}

	if report.Records, err = s.AttendanceRepo.ListByDate(day); err != nil {
		return nil, err
	}
	if report.Trainer, err = s.TrainerAttendanceRepo.ListByDate(day); err != nil {
		return nil, err
	}
	return report, nil
}

func applyStatusCount(b *StatusBreakdown, status model.AttendanceStatus, count int64) {
	switch status {
	case model.AttendancePresent:
		b.Present = count
	case model.AttendanceAbsent:
		b.Absent = count
	case model.AttendanceLate:
		b.Late = count
	case model.AttendanceExcused:
		b.Excused = count
	}
	b.Total += count
}

// MonthlyEnrollmentPoint is one month of the enrollment trend chart.
type MonthlyEnrollmentPoint struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type AdminDashboard struct {
	TotalStudents        int64                      `json:"total_students"`
	TotalInstructors     int64                      `json:"total_instructors"`
	TotalCourses         int64                      `json:"total_courses"`
	TotalEnrollments     int64                      `json:"total_enrollments"`
	TotalMaterials       int64                      `json:"total_materials"`
	TotalVideos          int64                      `json:"total_videos"`
	RecentStudents       []model.Student            `json:"recent_students"`
	RecentCourses        []model.Course             `json:"recent_courses"`
	RecentEnrollments    []model.Enrollment         `json:"recent_enrollments"`
	CategoryDistribution []repository.CategoryCount `json:"category_distribution"`
	MonthlyEnrollments   []MonthlyEnrollmentPoint   `json:"monthly_enrollments"`
}

// Dashboard builds the admin overview. Results are cached in Redis for a few
// minutes; cache failures fall through to the database.
func (s *ReportService) Dashboard(ctx context.Context, actor model.Actor) (*AdminDashboard, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, adminDashboardCacheKey).Bytes(); err == nil {
			var dashboard AdminDashboard
			if json.Unmarshal(cached, &dashboard) == nil {
				return &dashboard, nil
			}
		}
	}

	dashboard, err := s.buildDashboard()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(dashboard); err == nil {
			if err := s.Redis.Set(ctx, adminDashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache dashboard", zap.Error(err))
			}
		}
	}
	return dashboard, nil
}

func (s *ReportService) buildDashboard() (*AdminDashboard, error) {
	dashboard := &AdminDashboard{}
	var err error

	if dashboard.TotalStudents, err = s.StudentRepo.Count(); err != nil {
		return nil, err
	}
	if dashboard.TotalInstructors, err = s.InstructorRepo.Count(); err != nil {
		return nil, err
	}
	if dashboard.TotalCourses, err = s.CourseRepo.Count(); err != nil {
		return nil, err
	}
	if dashboard.TotalEnrollments, err = s.EnrollmentRepo.Count(); err != nil {
		return nil, err
	}
	if dashboard.TotalMaterials, err = s.MaterialRepo.Count(); err != nil {
		return nil, err
	}
	if dashboard.TotalVideos, err = s.VideoRepo.Count(); err != nil {
		return nil, err
	}

	if dashboard.RecentStudents, err = s.StudentRepo.FindRecent(5); err != nil {
		return nil, err
	}
	if dashboard.RecentCourses, err = s.CourseRepo.FindRecent(5); err != nil {
		return nil, err
	}
	if dashboard.RecentEnrollments, err = s.EnrollmentRepo.FindRecent(5); err != nil {
		return nil, err
	}

	if dashboard.CategoryDistribution, err = s.ReportRepo.CategoryDistribution(); err != nil {
		return nil, err
	}

	if dashboard.MonthlyEnrollments, err = s.monthlyEnrollments(12); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// monthlyEnrollments counts new enrollments per calendar month over the
// trailing window, oldest first. Months with no enrollments report zero.
func (s *ReportService) monthlyEnrollments(months int) ([]MonthlyEnrollmentPoint, error) {
	now := time.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	points := make([]MonthlyEnrollmentPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := currentMonth.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		count, err := s.EnrollmentRepo.CountCreatedBetween(start, end)
		if err != nil {
			return nil, err
		}
		points = append(points, MonthlyEnrollmentPoint{
			Month: start.Format("2006-01"),
			Count: count,
		})
	}
	return points, nil
}

// TopCourse pairs a course with its enrollment and completion figures.
type TopCourse struct {
	CourseID       uint    `json:"course_id"`
	Title          string  `json:"title"`
	Enrollments    int64   `json:"enrollments"`
	CompletionRate float64 `json:"completion_rate"`
}

type Analytics struct {
	TotalEnrollments   int64       `json:"total_enrollments"`
	CompletionRate     float64     `json:"completion_rate"`
	PendingSubmissions int64       `json:"pending_submissions"`
	TopCourses         []TopCourse `json:"top_courses"`
	EstimatedRevenue   float64     `json:"estimated_revenue"`
}

// AdminAnalytics computes platform-wide figures. Rates divide by zero as
// zero, and revenue is the flat per-enrollment estimate used by the
// reporting views.
func (s *ReportService) AdminAnalytics(actor model.Actor) (*Analytics, error) {
	if !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}

	analytics := &Analytics{TopCourses: []TopCourse{}}

	total, err := s.EnrollmentRepo.Count()
	if err != nil {
		return nil, err
	}
	analytics.TotalEnrollments = total

	completed, err := s.EnrollmentRepo.CountByStatus(model.EnrollmentCompleted)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		analytics.CompletionRate = float64(completed) / float64(total) * 100
	}

	if analytics.PendingSubmissions, err = s.SubmissionRepo.CountUngraded(); err != nil {
		return nil, err
	}

	top, err := s.ReportRepo.TopCoursesByEnrollment(5)
	if err != nil {
		return nil, err
	}
	for _, row := range top {
		course := TopCourse{
			CourseID:    row.CourseID,
			Title:       row.Title,
			Enrollments: row.Enrolled,
		}
		if row.Enrolled > 0 {
			course.CompletionRate = float64(row.Completed) / float64(row.Enrolled) * 100
		}
		analytics.TopCourses = append(analytics.TopCourses, course)
	}

	analytics.EstimatedRevenue = float64(total) * 100
	return analytics, nil
}

type InstructorDashboard struct {
	Courses            []model.Course `json:"courses"`
	TotalStudents      int64          `json:"total_students"`
	PendingSubmissions int64          `json:"pending_submissions"`
}

// InstructorOverview summarizes the instructor's own teaching load.
func (s *ReportService) InstructorOverview(actor model.Actor) (*InstructorDashboard, error) {
	if !actor.IsInstructor() {
		return nil, util.ErrPermissionDenied
	}

	courses, _, err := s.CourseRepo.List(repository.CourseFilter{InstructorID: actor.ProfileID})
	if err != nil {
		return nil, err
	}

	dashboard := &InstructorDashboard{Courses: courses}
	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
		count, err := s.EnrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		dashboard.TotalStudents += count
	}

	if dashboard.PendingSubmissions, err = s.SubmissionRepo.CountUngradedByCourses(courseIDs); err != nil {
		return nil, err
	}
	return dashboard, nil
}

type StudentDashboard struct {
	Enrollments []model.Enrollment `json:"enrollments"`
	Attendance  StatusBreakdown    `json:"attendance"`
}

// StudentOverview summarizes the student's own enrollments and attendance.
func (s *ReportService) StudentOverview(actor model.Actor) (*StudentDashboard, error) {
	if !actor.IsStudent() {
		return nil, util.ErrPermissionDenied
	}

	enrollments, err := s.EnrollmentRepo.ListByStudent(actor.ProfileID)
	if err != nil {
		return nil, err
	}

	records, _, err := s.AttendanceRepo.List(repository.AttendanceFilter{StudentID: actor.ProfileID})
	if err != nil {
		return nil, err
	}

	dashboard := &StudentDashboard{Enrollments: enrollments}
	for _, record := range records {
		applyStatusCount(&dashboard.Attendance, record.Status, 1)
	}
	return dashboard, nil
}

// InvalidateDashboardCache drops the cached admin dashboard after writes
// that change its figures.
func (s *ReportService) InvalidateDashboardCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, adminDashboardCacheKey).Err(); err != nil && err != redis.Nil {
		logger.Log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
