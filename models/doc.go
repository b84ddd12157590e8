// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types, page view models and form types.

# Domain Types

  - User: login name, email, display name, password hash (never serialized)
  - Bug: title, body, free-text status, dates, owner, optional milestone, tags
  - Milestone: name, description and derived bug count
  - Session: server-side session with optional user and CSRF token

# View Models

One struct per page, each embedding Page (csrf_token and the current user).
JSON tags keep the keys templates have always used:

  - IndexPage: userBugs, tagBugs
  - UserPrefsPage: subscriptions (tag names)
  - BugListPage: bugs (BugRow: id, title, status, createdate, tags)
  - BugInfoPage: bug (tags space-joined plus tagList)
  - MilestoneListPage: milestones (with bugCount)
  - MilestoneInfoPage: milestone (milestone_id, milestone_name,
    milestone_description, bugs)

# Form Types

Form structs carry form, validate and msg tags. The msg tag is the plain-text
400 body when that field fails validation:

	type BugForm struct {
		Title string `form:"bug_title" validate:"required" msg:"No bug title provided"`
		...
	}

# Tags

SplitTags turns the bug_tags field into distinct whitespace-separated tokens;
JoinTags joins them back with single spaces.
*/
package models
