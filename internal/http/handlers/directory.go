package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/rehabdir-backend/internal/data/filter"
	domainagg "github.com/yungbote/rehabdir-backend/internal/domain/aggregates"
	"github.com/yungbote/rehabdir-backend/internal/http/response"
	"github.com/yungbote/rehabdir-backend/internal/platform/apierr"
	"github.com/yungbote/rehabdir-backend/internal/services"
)

type DirectoryHandler struct {
	dir services.DirectoryService
}

func NewDirectoryHandler(dir services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{dir: dir}
}

// queryBody is the POST /query payload of every entity.
type queryBody[F any] struct {
	Where *F  `json:"where"`
	Skip  int `json:"skip"`
	Take  int `json:"take"`
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_id", err))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondErr(c, apierr.BadRequest("invalid_body", err))
		return false
	}
	return true
}

// pageFromQuery reads ?skip= and ?take=.
func pageFromQuery(c *gin.Context) (services.Page, error) {
	var p services.Page
	for name, dst := range map[string]*int{"skip": &p.Skip, "take": &p.Take} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, apierr.BadRequest("invalid_"+name, fmt.Errorf("%s must be an integer", name))
		}
		*dst = n
	}
	return p, nil
}

func searchFromQuery(c *gin.Context) *string {
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		return &q
	}
	return nil
}

func respondFound[T any](c *gin.Context, key string, row *T, err error) {
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if row == nil {
		response.RespondErr(c, domainagg.NotFound("directory.find", key, c.Param("id")))
		return
	}
	response.RespondOK(c, gin.H{key: row})
}

func respondWrite[T any](c *gin.Context, status int, key string, row *T, err error) {
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.Respond(c, status, gin.H{key: row})
}

// Orgs

// POST /api/orgs
func (h *DirectoryHandler) CreateOrg(c *gin.Context) {
	var in domainagg.OrgInput
	if !bindJSON(c, &in) {
		return
	}
	org, err := h.dir.CreateOrg(c.Request.Context(), in)
	respondWrite(c, http.StatusCreated, "org", org, err)
}

// PUT /api/orgs/:id
func (h *DirectoryHandler) UpsertOrg(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in domainagg.OrgInput
	if !bindJSON(c, &in) {
		return
	}
	org, err := h.dir.UpsertOrg(c.Request.Context(), id, in)
	respondWrite(c, http.StatusOK, "org", org, err)
}

// DELETE /api/orgs/:id
func (h *DirectoryHandler) DeleteOrg(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.dir.DeleteOrg(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/orgs/:id
func (h *DirectoryHandler) GetOrg(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	org, err := h.dir.FindOrgByID(c.Request.Context(), id)
	respondFound(c, "org", org, err)
}

// GET /api/orgs
func (h *DirectoryHandler) ListOrgs(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var f *filter.OrgFilter
	if s := searchFromQuery(c); s != nil {
		f = &filter.OrgFilter{Search: s}
	}
	h.listOrgs(c, f, page)
}

// POST /api/orgs/query
func (h *DirectoryHandler) QueryOrgs(c *gin.Context) {
	var body queryBody[filter.OrgFilter]
	if !bindJSON(c, &body) {
		return
	}
	h.listOrgs(c, body.Where, services.Page{Skip: body.Skip, Take: body.Take})
}

func (h *DirectoryHandler) listOrgs(c *gin.Context, f *filter.OrgFilter, page services.Page) {
	rows, err := h.dir.FindManyOrgs(c.Request.Context(), f, page)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orgs": rows})
}

// Campuses

// POST /api/campuses
func (h *DirectoryHandler) CreateCampus(c *gin.Context) {
	var in domainagg.CampusInput
	if !bindJSON(c, &in) {
		return
	}
	campus, err := h.dir.CreateCampus(c.Request.Context(), in)
	respondWrite(c, http.StatusCreated, "campus", campus, err)
}

// PUT /api/campuses/:id
func (h *DirectoryHandler) UpsertCampus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in domainagg.CampusInput
	if !bindJSON(c, &in) {
		return
	}
	campus, err := h.dir.UpsertCampus(c.Request.Context(), id, in)
	respondWrite(c, http.StatusOK, "campus", campus, err)
}

// DELETE /api/campuses/:id
func (h *DirectoryHandler) DeleteCampus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.dir.DeleteCampus(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/campuses/:id
func (h *DirectoryHandler) GetCampus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	campus, err := h.dir.FindCampusByID(c.Request.Context(), id)
	respondFound(c, "campus", campus, err)
}

// GET /api/campuses
func (h *DirectoryHandler) ListCampuses(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var f *filter.CampusFilter
	if s := searchFromQuery(c); s != nil {
		f = &filter.CampusFilter{Search: s}
	}
	h.listCampuses(c, f, page)
}

// POST /api/campuses/query
func (h *DirectoryHandler) QueryCampuses(c *gin.Context) {
	var body queryBody[filter.CampusFilter]
	if !bindJSON(c, &body) {
		return
	}
	h.listCampuses(c, body.Where, services.Page{Skip: body.Skip, Take: body.Take})
}

func (h *DirectoryHandler) listCampuses(c *gin.Context, f *filter.CampusFilter, page services.Page) {
	rows, err := h.dir.FindManyCampuses(c.Request.Context(), f, page)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"campuses": rows})
}

// Programs

// POST /api/programs
func (h *DirectoryHandler) CreateProgram(c *gin.Context) {
	var in domainagg.ProgramInput
	if !bindJSON(c, &in) {
		return
	}
	program, err := h.dir.CreateProgram(c.Request.Context(), in)
	respondWrite(c, http.StatusCreated, "program", program, err)
}

// PUT /api/programs/:id
func (h *DirectoryHandler) UpsertProgram(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in domainagg.ProgramInput
	if !bindJSON(c, &in) {
		return
	}
	program, err := h.dir.UpsertProgram(c.Request.Context(), id, in)
	respondWrite(c, http.StatusOK, "program", program, err)
}

// DELETE /api/programs/:id
func (h *DirectoryHandler) DeleteProgram(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.dir.DeleteProgram(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/programs/:id
func (h *DirectoryHandler) GetProgram(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	program, err := h.dir.FindProgramByID(c.Request.Context(), id)
	respondFound(c, "program", program, err)
}

// GET /api/programs
func (h *DirectoryHandler) ListPrograms(c *gin.Context) {
	page, err := pageFromQuery(c)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var f *filter.ProgramFilter
	if s := searchFromQuery(c); s != nil {
		f = &filter.ProgramFilter{Search: s}
	}
	h.listPrograms(c, f, page)
}

// POST /api/programs/query
func (h *DirectoryHandler) QueryPrograms(c *gin.Context) {
	var body queryBody[filter.ProgramFilter]
	if !bindJSON(c, &body) {
		return
	}
	h.listPrograms(c, body.Where, services.Page{Skip: body.Skip, Take: body.Take})
}

func (h *DirectoryHandler) listPrograms(c *gin.Context, f *filter.ProgramFilter, page services.Page) {
	rows, err := h.dir.FindManyPrograms(c.Request.Context(), f, page)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"programs": rows})
}
