package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"campushub.org/internal/auth"
	"campushub.org/internal/records"
	"campushub.org/internal/school"
)

// filterParam maps a query parameter onto a document field. Numeric params
// are coerced so they compare equal to JSON-decoded document values.
type filterParam struct {
	name    string
	numeric bool
}

// crudRoute describes one collection endpoint: which roles may create, which
// may list, which query filters the list accepts and how it is sorted.
// A nil role slice leaves the method open; an empty non-nil slice accepts
// any authenticated caller.
type crudRoute struct {
	collection     string
	createRoles    []string
	listRoles      []string
	filters        []filterParam
	requiredParams []string
	sort           func([]records.Document)
	noCreate       bool
	noList         bool
}

var (
	anyAuthenticated = []string{}
	adminOnly        = []string{auth.RoleAdmin}
	teachingStaff    = []string{auth.RoleTeacher, auth.RoleAdmin}
)

func (a *API) crudHandler(rt crudRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if rt.noCreate {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			if !allowRoles(w, r, rt.createRoles) {
				return
			}
			a.createDocument(w, r, rt.collection)
		case http.MethodGet:
			if rt.noList {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			if !allowRoles(w, r, rt.listRoles) {
				return
			}
			a.listDocuments(w, r, rt)
		default:
			allowed := []string{http.MethodPost, http.MethodGet}
			if rt.noCreate {
				allowed = []string{http.MethodGet}
			} else if rt.noList {
				allowed = []string{http.MethodPost}
			}
			methodNotAllowed(w, allowed...)
		}
	}
}

func (a *API) createDocument(w http.ResponseWriter, r *http.Request, collection string) {
	var payload map[string]any
	if err := a.decodeJSON(w, r, &payload); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := school.Normalize(collection, payload)
	if err != nil {
		var verr *school.ValidationError
		if errors.As(err, &verr) {
			writeDetail(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.records.Create(r.Context(), collection, doc)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	if collection == school.CollectionAttendance {
		// Attendance always enters unapproved; a teacher approves it later.
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "approved": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request, rt crudRoute) {
	for _, name := range rt.requiredParams {
		if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
			writeDetail(w, http.StatusUnprocessableEntity, name+": query parameter required")
			return
		}
	}

	filter := records.Filter{}
	for _, p := range rt.filters {
		raw := strings.TrimSpace(r.URL.Query().Get(p.name))
		if raw == "" {
			continue
		}
		if p.numeric {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeDetail(w, http.StatusUnprocessableEntity, p.name+": must be a number")
				return
			}
			filter[p.name] = n
			continue
		}
		filter[p.name] = raw
	}
	if len(filter) == 0 {
		filter = nil
	}

	docs, err := a.records.List(r.Context(), rt.collection, filter)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if rt.sort != nil {
		rt.sort(docs)
	}
	if docs == nil {
		docs = []records.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// --- attendance approval ---

type approveAttendanceRequest struct {
	RecordID   string `json:"record_id"`
	ApprovedBy string `json:"approved_by"`
}

func (a *API) handleApproveAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if !allowRoles(w, r, teachingStaff) {
		return
	}
	var req approveAttendanceRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RecordID) == "" || strings.TrimSpace(req.ApprovedBy) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "record_id and approved_by are required")
		return
	}

	matched, err := a.records.UpdateOne(r.Context(), school.CollectionAttendance, req.RecordID, records.Document{
		"approved":    true,
		"approved_by": req.ApprovedBy,
	})
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if matched == 0 {
		writeDetail(w, http.StatusNotFound, "Attendance record not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "approved", "updated": matched})
}

// --- feed ---

func (a *API) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	announcements, err := a.records.List(r.Context(), school.CollectionAnnouncements, nil)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	school.SortAnnouncements(announcements)

	circulars, err := a.records.List(r.Context(), school.CollectionCirculars, nil)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	events, err := a.records.List(r.Context(), school.CollectionEvents, nil)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	school.SortEventsUpcoming(events)

	writeJSON(w, http.StatusOK, map[string]any{
		"announcements": emptyIfNil(announcements),
		"circulars":     emptyIfNil(circulars),
		"events":        emptyIfNil(events),
	})
}

func emptyIfNil(docs []records.Document) []records.Document {
	if docs == nil {
		return []records.Document{}
	}
	return docs
}
