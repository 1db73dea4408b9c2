package commands_test

import (
	"strings"
	"testing"

	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/testutil"
)

const adminPage = `<div class="users-grid">
  <div class="user-card" onclick="showUserDetails(7)">
    <div class="user-email">ada@example.com</div>
    <span class="role-badge admin">ADMIN</span>
  </div>
  <div class="user-card" onclick="showUserDetails(12)">
    <div class="user-email">bob@example.com</div>
    <span class="role-badge user">USER</span>
  </div>
</div>
<div id="edit-form-7"><form action="/admin/users/7/edit" method="post"><input name="email" value="ada@example.com"></form></div>
<form id="delete-form-7" action="/admin/users/7/delete" method="post"></form>`

func adminService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.SetPage(config.DefaultAdminPath, adminPage)
	return svc
}

func TestUsersCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.UsersCmd{}, adminService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "------------\nUsers\n------------\n" +
		"   7  ada@example.com  [ADMIN]\n  12  bob@example.com  [USER]\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestUsersCommand_NoPage(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UsersCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: load dashboard") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestUserCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.UserCmd{}, adminService(), []string{"12"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "  12  bob@example.com  [USER]\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestUserCommand_HTML(t *testing.T) {
	cmd := &commands.UserCmd{}
	cmd.SetHTML(true)

	stdout, _, code := runCommand(t, cmd, adminService(), []string{"7"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, `class="role-badge admin"`) || !strings.Contains(stdout, "ada@example.com") {
		t.Errorf("expected detail markup, got %q", stdout)
	}
}

func TestUserCommand_Edit(t *testing.T) {
	cmd := &commands.UserCmd{}
	cmd.SetEdit(true)

	stdout, _, code := runCommand(t, cmd, adminService(), []string{"7"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, `action="/admin/users/7/edit"`) {
		t.Errorf("expected edit form markup, got %q", stdout)
	}
}

func TestUserCommand_Unknown(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UserCmd{}, adminService(), []string{"99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: user 99: unknown user\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRmUserCommand(t *testing.T) {
	svc := adminService()

	cmd := &commands.RmUserCmd{}
	cmd.SetInput(strings.NewReader("yes\n"))
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"7"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stderr, "This action cannot be undone.") {
		t.Errorf("expected prompt, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	forms := svc.Forms()
	if len(forms) != 1 || forms[0].Action != "/admin/users/7/delete" {
		t.Errorf("unexpected forms %+v", forms)
	}
}

func TestRmUserCommand_Declined(t *testing.T) {
	svc := adminService()

	cmd := &commands.RmUserCmd{}
	cmd.SetInput(strings.NewReader("n\n"))
	_, _, code := runCommand(t, cmd, svc, []string{"7"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if svc.Calls("SubmitForm") != 0 {
		t.Error("declined delete must not submit")
	}
}

func TestRmUserCommand_NoDeleteForm(t *testing.T) {
	cmd := &commands.RmUserCmd{}
	cmd.SetYes(true)

	_, stderr, code := runCommand(t, cmd, adminService(), []string{"12"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "no delete form") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
