package models

import "time"

// Form field names posted by the templates
const (
	FieldCSRFToken = "csrf_token"
	FieldSearch    = "searchterm"
)

// Domain types

type User struct {
	ID           int64  `json:"user_id"`
	Name         string `json:"user_name"`
	Email        string `json:"user_email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"` // Never expose in JSON
}

type Bug struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	CreateDate  time.Time  `json:"create_date"`
	CloseDate   *time.Time `json:"close_date,omitempty"`
	UserID      int64      `json:"user_id"`
	MilestoneID *int64     `json:"milestone_id,omitempty"`
	Tags        []string   `json:"tagList"`
}

// TagString is the space-joined tag list shown on bug pages.
func (b Bug) TagString() string {
	return JoinTags(b.Tags)
}

type Milestone struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BugCount    int    `json:"bugCount"`
}

type Session struct {
	ID        string
	UserID    *int64
	CSRFToken string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Page view models. Every page carries the session CSRF token and the
// current user when one is logged in.

type Page struct {
	CSRFToken string `json:"csrf_token"`
	User      *User  `json:"user,omitempty"`
}

type IndexPage struct {
	Page
	UserBugs []Bug `json:"userBugs"`
	TagBugs  []Bug `json:"tagBugs"`
}

type UserPrefsPage struct {
	Page
	Subscriptions []string `json:"subscriptions"`
}

// BugRow is one line of the bug list and search results.
type BugRow struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	CreateDate time.Time `json:"createdate"`
	Tags       string    `json:"tags"`
}

type BugListPage struct {
	Page
	SearchTerm string   `json:"searchterm,omitempty"`
	Bugs       []BugRow `json:"bugs"`
}

type BugDetail struct {
	Bug
	TagLine string `json:"tags"`
}

type BugInfoPage struct {
	Page
	Bug BugDetail `json:"bug"`
}

type MilestoneListPage struct {
	Page
	Milestones []Milestone `json:"milestones"`
}

type MilestoneDetail struct {
	ID          int64  `json:"milestone_id"`
	Name        string `json:"milestone_name"`
	Description string `json:"milestone_description"`
	Bugs        []Bug  `json:"bugs"`
}

type MilestoneInfoPage struct {
	Page
	Milestone MilestoneDetail `json:"milestone"`
}

// Form types. The msg tag is the 400 body returned when the field fails validation.

type LoginForm struct {
	Username string `form:"username" validate:"required" msg:"No user name provided"`
	Password string `form:"password" validate:"required" msg:"No password provided"`
}

type UserForm struct {
	Username    string `form:"username" validate:"required" msg:"No user name provided"`
	Email       string `form:"email" validate:"required" msg:"No email provided"`
	DisplayName string `form:"displayname" validate:"required" msg:"No display name provided"`
	Password    string `form:"password" validate:"required" msg:"No password provided"`
	Confirm     string `form:"confirm" validate:"eqfield=Password" msg:"Password and confirmation do not match."`
}

type BugForm struct {
	Title  string `form:"bug_title" validate:"required" msg:"No bug title provided"`
	Status string `form:"bug_status" validate:"required" msg:"No bug status provided"`
	Body   string `form:"bug_body" validate:"required" msg:"No bug body provided"`
	Tags   string `form:"bug_tags"`
}

type MilestoneForm struct {
	Name        string `form:"milestone_name" validate:"required" msg:"No milestone name provided"`
	Description string `form:"milestone_description" validate:"required" msg:"No milestone description provided"`
}

type SubscribeForm struct {
	Tag string `form:"tag_name" validate:"required" msg:"No tag provided"`
}
