package httpapi

import (
	"campushub.org/internal/auth"
	"campushub.org/internal/obs"
	"campushub.org/internal/school"
)

// routes enumerates every endpoint and its role requirement in one place.
func (a *API) routes() {
	a.mux.HandleFunc("/", a.handleRoot)
	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.HandleFunc("/schema", a.handleSchema)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/register", a.handleRegister)
	a.mux.HandleFunc("/auth/login", a.handleLogin)

	// Admin surface.
	a.mux.HandleFunc("/admin/teachers", a.crudHandler(crudRoute{
		collection:  school.CollectionTeachers,
		createRoles: adminOnly,
		listRoles:   anyAuthenticated,
	}))
	a.mux.HandleFunc("/admin/announcements", a.crudHandler(crudRoute{
		collection:  school.CollectionAnnouncements,
		createRoles: adminOnly,
		listRoles:   anyAuthenticated,
		sort:        school.SortAnnouncements,
	}))
	a.mux.HandleFunc("/admin/circulars", a.crudHandler(crudRoute{
		collection:  school.CollectionCirculars,
		createRoles: adminOnly,
		listRoles:   anyAuthenticated,
	}))
	a.mux.HandleFunc("/admin/events", a.crudHandler(crudRoute{
		collection:  school.CollectionEvents,
		createRoles: adminOnly,
		listRoles:   anyAuthenticated,
		sort:        school.SortEventsUpcoming,
	}))
	// Both methods are admin-only, so one uniform gate wraps the handler.
	a.mux.Handle("/admin/performance", RequireRole(auth.RoleAdmin)(a.crudHandler(crudRoute{
		collection: school.CollectionPerformance,
	})))

	// Teaching staff surface.
	a.mux.HandleFunc("/teachers/students", a.crudHandler(crudRoute{
		collection:  school.CollectionStudents,
		createRoles: teachingStaff,
		listRoles:   teachingStaff,
		filters: []filterParam{
			{name: "department"},
			{name: "year", numeric: true},
			{name: "section"},
		},
	}))
	a.mux.HandleFunc("/teachers/classes", a.crudHandler(crudRoute{
		collection:  school.CollectionClassrooms,
		createRoles: teachingStaff,
		listRoles:   teachingStaff,
		filters: []filterParam{
			{name: "department"},
			{name: "year", numeric: true},
			{name: "section"},
		},
	}))
	a.mux.HandleFunc("/teachers/materials", a.crudHandler(crudRoute{
		collection:  school.CollectionStudyMaterials,
		createRoles: teachingStaff,
		listRoles:   teachingStaff,
		filters:     []filterParam{{name: "class_id"}},
	}))
	a.mux.HandleFunc("/teachers/assignments", a.crudHandler(crudRoute{
		collection:  school.CollectionAssignments,
		createRoles: teachingStaff,
		listRoles:   teachingStaff,
		filters:     []filterParam{{name: "class_id"}},
	}))
	a.mux.HandleFunc("/teachers/attendance/approve", a.handleApproveAttendance)

	// Student surface.
	a.mux.HandleFunc("/students/attendance", a.crudHandler(crudRoute{
		collection:  school.CollectionAttendance,
		createRoles: anyAuthenticated,
		noList:      true,
	}))
	a.mux.HandleFunc("/students/materials", a.crudHandler(crudRoute{
		collection:     school.CollectionStudyMaterials,
		listRoles:      anyAuthenticated,
		filters:        []filterParam{{name: "class_id"}},
		requiredParams: []string{"class_id"},
		noCreate:       true,
	}))
	a.mux.HandleFunc("/students/assignments", a.crudHandler(crudRoute{
		collection:     school.CollectionAssignments,
		listRoles:      anyAuthenticated,
		filters:        []filterParam{{name: "class_id"}},
		requiredParams: []string{"class_id"},
		noCreate:       true,
	}))

	// Shared feed, no token required.
	a.mux.HandleFunc("/feed", a.handleFeed)
}
