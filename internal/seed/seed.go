package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/corehr/hrm-backend/internal/config"
	"github.com/corehr/hrm-backend/internal/domain"
	"github.com/corehr/hrm-backend/internal/repository"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Daniel", "Karen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var departments = map[string][]string{
	"Engineering":     {"Software Engineer", "Senior Engineer", "Engineering Manager", "QA Engineer"},
	"Human Resources": {"HR Specialist", "Recruiter", "HR Manager"},
	"Finance":         {"Accountant", "Financial Analyst", "Finance Manager"},
	"Sales":           {"Sales Representative", "Account Executive", "Sales Manager"},
	"Marketing":       {"Marketing Specialist", "Content Writer", "Marketing Manager"},
}

func pick[T any](xs []T) T {
	return xs[rand.Intn(len(xs))]
}

// Employees inserts n demo accounts with a shared password and a random
// department assignment. Returns the IDs it managed to create.
func Employees(cfg *config.Config, repo *repository.Repository, n int) []int64 {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return nil
	}

	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		firstName := pick(firstNames)
		lastName := pick(lastNames)
		employeeID := fmt.Sprintf("EMP%04d", rand.Intn(10000))

		user := &domain.User{
			EmployeeID:   employeeID,
			Email:        fmt.Sprintf("%s.%s.%d@example.com", firstName, lastName, rand.Intn(1000)),
			PasswordHash: string(passwordHash),
			Role:         domain.RoleEmployee,
		}

		if err := repo.CreateEmployee(user, firstName, lastName); err != nil {
			slog.Error("failed to insert employee", "error", err)
			continue
		}

		department := pick(keys(departments))
		position := pick(departments[department])
		salary := float64(3000 + rand.Intn(7000))

		err := repo.UpdateEmployee(user.ID, repository.UpdateEmployeeParams{
			Department: &department,
			Position:   &position,
			Salary:     &salary,
		})
		if err != nil {
			slog.Error("failed to assign department", "userID", user.ID, "error", err)
		}

		ids = append(ids, user.ID)
	}

	slog.Info("inserted employees", "count", len(ids))
	return ids
}

func keys(m map[string][]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}

// Attendance backfills the last days workdays for each user with plausible
// check-in and check-out times. Weekends are skipped.
func Attendance(cfg *config.Config, repo *repository.Repository, userIDs []int64, days int) {
	count := 0
	for _, userID := range userIDs {
		for d := days; d >= 1; d-- {
			date := time.Now().AddDate(0, 0, -d)
			if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
				continue
			}

			// most days start around 09:00, a few run late
			checkIn := time.Date(date.Year(), date.Month(), date.Day(), 8, 40+rand.Intn(70), rand.Intn(60), 0, date.Location())
			checkOut := checkIn.Add(time.Duration(6*60+rand.Intn(240)) * time.Minute)

			workHours := domain.WorkHours(checkIn, checkOut)
			status := domain.CheckInStatus(checkIn, cfg.Attendance.LateAfter)
			status = domain.CheckOutStatus(status, workHours, cfg.Attendance.HalfDayBelowHours)

			rec := &domain.AttendanceRecord{
				UserID:  userID,
				Date:    time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
				CheckIn: &checkIn,
				Status:  status,
			}
			if err := repo.CreateCheckIn(rec); err != nil {
				slog.Error("failed to insert attendance", "userID", userID, "error", err)
				continue
			}
			if _, err := repo.CompleteCheckOut(rec.ID, checkOut, workHours, status, nil); err != nil {
				slog.Error("failed to complete attendance", "userID", userID, "error", err)
				continue
			}

			count++
		}
	}

	slog.Info("inserted attendance records", "count", count)
}

var leaveReasons = []string{
	"Family vacation",
	"Medical appointment",
	"Personal matters",
	"Moving to a new apartment",
	"Attending a wedding",
}

// Leaves files one request per user at a random offset in the coming month.
func Leaves(repo *repository.Repository, userIDs []int64) {
	count := 0
	for _, userID := range userIDs {
		employee, err := repo.GetEmployee(userID)
		if err != nil {
			slog.Error("failed to load employee", "userID", userID, "error", err)
			continue
		}

		start := time.Now().AddDate(0, 0, 7+rand.Intn(21))
		end := start.AddDate(0, 0, rand.Intn(4))

		req := &domain.LeaveRequest{
			UserID:    userID,
			UserName:  employee.FullName(),
			Type:      pick([]domain.LeaveType{domain.LeavePaid, domain.LeaveSick, domain.LeaveUnpaid}),
			StartDate: start,
			EndDate:   end,
			Reason:    pick(leaveReasons),
		}
		if err := repo.CreateLeaveRequest(req); err != nil {
			slog.Error("failed to insert leave request", "userID", userID, "error", err)
			continue
		}

		count++
	}

	slog.Info("inserted leave requests", "count", count)
}

// Payroll generates the last months of records for every salaried user and
// marks all but the current month as paid.
func Payroll(repo *repository.Repository, months int) {
	users, err := repo.ActiveSalariedUsers()
	if err != nil {
		slog.Error("failed to load salaried users", "error", err)
		return
	}

	count := 0
	for m := months - 1; m >= 0; m-- {
		monthStart := time.Now().AddDate(0, -m, 0)
		month := monthStart.Format("2006-01")

		for _, u := range users {
			rec, err := repo.GeneratePayroll(u.UserID, month, monthStart.Year(), u.Salary)
			if err != nil {
				slog.Error("failed to generate payroll", "userID", u.UserID, "month", month, "error", err)
				continue
			}
			if rec == nil {
				continue
			}

			if m > 0 {
				if _, err := repo.ProcessPayroll(rec.ID); err != nil {
					slog.Error("failed to process payroll", "id", rec.ID, "error", err)
					continue
				}
			}

			count++
		}
	}

	slog.Info("inserted payroll records", "count", count)
}
