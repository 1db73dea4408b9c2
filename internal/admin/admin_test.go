package admin_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"tasklist/internal/admin"
	"tasklist/internal/backend/taskapi"
	"tasklist/internal/taskclient"
	"tasklist/internal/testutil"
)

const dashboardPage = `<!DOCTYPE html>
<html><body>
<div class="users-grid">
  <div class="user-card" onclick="showUserDetails(7)">
    <div class="user-email">ada@example.com</div>
    <span class="role-badge admin">ADMIN</span>
  </div>
  <div class="user-card" onclick="showUserDetails(12)">
    <div class="user-email"> bob&amp;co@example.com </div>
    <span class="role-badge user">USER</span>
  </div>
</div>
<div id="edit-form-7" style="display:none"><form action="/admin/users/7/edit" method="post"><input type="text" name="email" value="ada@example.com"></form></div>
<form id="delete-form-7" action="/admin/users/7/delete" method="post"><input type="hidden" name="reason" value="cleanup"></form>
<form id="delete-form-12" action="/admin/users/12/delete" method="post"></form>
</body></html>`

func newClient(t *testing.T, srv *testutil.FakeServer) *taskapi.Client {
	t.Helper()
	c, err := taskapi.NewWithHTTPClient(srv.URL, testutil.CSRFCookieName, &http.Client{})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func parse(t *testing.T) *admin.Dashboard {
	t.Helper()
	d, err := admin.ParseDashboard(dashboardPage)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return d
}

func TestParseDashboard(t *testing.T) {
	d := parse(t)

	if len(d.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(d.Users))
	}
	ada, ok := d.User(7)
	if !ok {
		t.Fatal("expected user 7")
	}
	if ada.Email != "ada@example.com" || ada.Role != "ADMIN" {
		t.Errorf("unexpected card %+v", ada)
	}
	if ada.DeleteAction != "/admin/users/7/delete" {
		t.Errorf("unexpected delete action %q", ada.DeleteAction)
	}
	if ada.DeleteFields["reason"] != "cleanup" {
		t.Errorf("expected hidden field, got %v", ada.DeleteFields)
	}
	if !strings.Contains(ada.EditForm, `action="/admin/users/7/edit"`) {
		t.Errorf("expected edit form markup, got %q", ada.EditForm)
	}

	bob, _ := d.User(12)
	if bob.Email != "bob&co@example.com" {
		t.Errorf("expected decoded trimmed email, got %q", bob.Email)
	}
	if bob.EditForm != "" {
		t.Errorf("expected no edit form, got %q", bob.EditForm)
	}

	if _, ok := d.User(99); ok {
		t.Error("unexpected user 99")
	}
}

func TestModal_ShowAndClose(t *testing.T) {
	m := admin.NewModal(parse(t))

	if err := m.ShowUserDetails(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.DetailOpen() || m.EditOpen() {
		t.Error("expected only the detail modal open")
	}
	body := m.DetailHTML()
	if !strings.Contains(body, "ada@example.com") {
		t.Errorf("expected email in details, got %q", body)
	}
	if !strings.Contains(body, `class="role-badge admin"`) || !strings.Contains(body, ">ADMIN<") {
		t.Errorf("expected role badge, got %q", body)
	}

	m.CloseDetail()
	if m.DetailOpen() {
		t.Error("expected detail closed")
	}
}

func TestModal_ShowEscapesCardText(t *testing.T) {
	d, err := admin.ParseDashboard(`<div onclick="showUserDetails(3)"><span class="user-email">&lt;script&gt;x&lt;/script&gt;</span><span class="role-badge">user</span></div>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	m := admin.NewModal(d)
	if err := m.ShowUserDetails(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(m.DetailHTML(), "<script>") {
		t.Errorf("expected escaped email, got %q", m.DetailHTML())
	}
}

func TestModal_UnknownUser(t *testing.T) {
	m := admin.NewModal(parse(t))
	if err := m.ShowUserDetails(99); !errors.Is(err, admin.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
	if err := m.ToggleEdit(99); !errors.Is(err, admin.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
	if m.DetailOpen() || m.EditOpen() {
		t.Error("no modal should open for an unknown user")
	}
}

func TestModal_ToggleEditClosesDetail(t *testing.T) {
	m := admin.NewModal(parse(t))
	m.ShowUserDetails(7)

	if err := m.ToggleEdit(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.DetailOpen() {
		t.Error("expected detail closed")
	}
	if !m.EditOpen() {
		t.Error("expected edit open")
	}
	if !strings.Contains(m.EditHTML(), `name="email"`) {
		t.Errorf("expected copied edit form, got %q", m.EditHTML())
	}
	if m.UserID() != 7 {
		t.Errorf("expected user 7, got %d", m.UserID())
	}

	m.CloseEdit()
	if m.EditOpen() {
		t.Error("expected edit closed")
	}
}

func TestModal_ClickOutside(t *testing.T) {
	m := admin.NewModal(parse(t))

	m.ShowUserDetails(7)
	m.ClickOutside(admin.TargetNone)
	if !m.DetailOpen() {
		t.Error("click inside must not close the modal")
	}
	m.ClickOutside(admin.TargetEdit)
	if !m.DetailOpen() {
		t.Error("click on the other backdrop must not close the detail modal")
	}
	m.ClickOutside(admin.TargetDetail)
	if m.DetailOpen() {
		t.Error("expected detail closed")
	}

	m.ToggleEdit(7)
	m.ClickOutside(admin.TargetEdit)
	if m.EditOpen() {
		t.Error("expected edit closed")
	}
}

func TestDeleteUser(t *testing.T) {
	svc := testutil.NewFakeService()
	d := parse(t)

	var asked string
	confirm := func(p string) bool { asked = p; return true }
	if err := admin.DeleteUser(context.Background(), d, 7, confirm, svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asked != admin.DeletePrompt {
		t.Errorf("unexpected prompt %q", asked)
	}
	forms := svc.Forms()
	if len(forms) != 1 || forms[0].Action != "/admin/users/7/delete" {
		t.Fatalf("unexpected forms %+v", forms)
	}
	if forms[0].Fields.Get("reason") != "cleanup" {
		t.Errorf("expected hidden field forwarded, got %v", forms[0].Fields)
	}
}

func TestDeleteUser_Declined(t *testing.T) {
	svc := testutil.NewFakeService()

	err := admin.DeleteUser(context.Background(), parse(t), 7, func(string) bool { return false }, svc)
	if !errors.Is(err, taskclient.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if svc.TotalCalls() != 0 {
		t.Error("declined delete must not submit")
	}
}

func TestDeleteUser_SubmitError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SubmitFormErr = errors.New("forbidden")

	err := admin.DeleteUser(context.Background(), parse(t), 12, taskclient.Confirmed, svc)
	if err == nil || !strings.Contains(err.Error(), "delete user 12") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestDeleteUser_AgainstServer(t *testing.T) {
	srv := testutil.NewFakeServer("tok")
	defer srv.Close()
	srv.SetAdminPage(dashboardPage)

	client := newClient(t, srv)
	ctx := context.Background()

	d, err := admin.Load(ctx, client, "/admin/users")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := admin.DeleteUser(ctx, d, 12, taskclient.Confirmed, client); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := srv.DeletedUsers(); len(got) != 1 || got[0] != 12 {
		t.Errorf("expected user 12 deleted, got %v", got)
	}
}

func TestLoad_FetchError(t *testing.T) {
	svc := testutil.NewFakeService()
	if _, err := admin.Load(context.Background(), svc, "/admin/users"); err == nil {
		t.Error("expected error for missing page")
	}
}
