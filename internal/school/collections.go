// Package school holds the domain catalog of the management backend: the
// named collections, their payload schemas, and the normalization rules
// applied before a document reaches the record store.
package school

// Collection names. Each maps 1:1 to a record-store collection.
const (
	CollectionTeachers           = "teacher"
	CollectionStudents           = "student"
	CollectionClassrooms         = "classroom"
	CollectionEnrollments        = "enrollment"
	CollectionAnnouncements      = "announcement"
	CollectionCirculars          = "circular"
	CollectionEvents             = "event"
	CollectionEventRegistrations = "eventregistration"
	CollectionStudyMaterials     = "studymaterial"
	CollectionAssignments        = "assignment"
	CollectionSubmissions        = "submission"
	CollectionAttendance         = "attendancerecord"
	CollectionPerformance        = "performancereview"
)
