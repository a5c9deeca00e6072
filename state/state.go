// Package state holds the single source of truth for UI-visible session data.
// Mutation happens only through the closed action vocabulary defined here,
// applied by a pure reducer; everything else is a read-only snapshot.
package state

import "github.com/uwezo-ai/uwezo/models"

// Page identifiers the dashboard can display.
const (
	PageDashboard = "dashboard"
	PageUpload    = "upload"
	PageResults   = "results"
	PageAnalytics = "analytics"
	PageSettings  = "settings"
	PageProfile   = "profile"
	PageLogin     = "login"
	PageSignup    = "signup"
	PageAdmin     = "admin"
)

// KnownPage reports whether p is one of the dashboard's page identifiers.
func KnownPage(p string) bool {
	switch p {
	case PageDashboard, PageUpload, PageResults, PageAnalytics,
		PageSettings, PageProfile, PageLogin, PageSignup, PageAdmin:
		return true
	}
	return false
}

// AppState is the complete session state. Values are copied out on read;
// callers never hold references into the live state.
type AppState struct {
	CurrentPage       string                    `json:"current_page"`
	UploadedFiles     []models.UploadedFile     `json:"uploaded_files"`
	ProcessingResults []models.ProcessingResult `json:"processing_results"`
	IsLoading         bool                      `json:"is_loading"`
	Notifications     []models.Notification     `json:"notifications"`
}

// Initial returns the boot state.
func Initial() AppState {
	return AppState{CurrentPage: PageDashboard}
}

// Action is the closed set of state transitions. Implementations live in this
// package only.
type Action interface{ isAction() }

type SetCurrentPage struct{ Page string }
type AddUploadedFile struct{ File models.UploadedFile }
type RemoveUploadedFile struct{ ID string }
type AddProcessingResult struct{ Result models.ProcessingResult }
type UpdateProcessingResult struct {
	ID      string
	Updates models.ResultUpdate
}
type SetLoading struct{ Loading bool }
type AddNotification struct{ Notification models.Notification }
type RemoveNotification struct{ ID string }

func (SetCurrentPage) isAction()         {}
func (AddUploadedFile) isAction()        {}
func (RemoveUploadedFile) isAction()     {}
func (AddProcessingResult) isAction()    {}
func (UpdateProcessingResult) isAction() {}
func (SetLoading) isAction()             {}
func (AddNotification) isAction()        {}
func (RemoveNotification) isAction()     {}

// reduce applies one action and returns the next state. Unrecognized actions
// and updates against unknown identifiers leave the state unchanged; no
// transition ever fails.
func reduce(s AppState, a Action) AppState {
	switch a := a.(type) {
	case SetCurrentPage:
		s.CurrentPage = a.Page

	case AddUploadedFile:
		s.UploadedFiles = append(copyFiles(s.UploadedFiles), a.File)

	case RemoveUploadedFile:
		files := make([]models.UploadedFile, 0, len(s.UploadedFiles))
		for _, f := range s.UploadedFiles {
			if f.ID != a.ID {
				files = append(files, f)
			}
		}
		s.UploadedFiles = files

	case AddProcessingResult:
		s.ProcessingResults = append(copyResults(s.ProcessingResults), a.Result)

	case UpdateProcessingResult:
		results := copyResults(s.ProcessingResults)
		for i, r := range results {
			if r.ID == a.ID {
				results[i] = a.Updates.Apply(r)
				break
			}
		}
		s.ProcessingResults = results

	case SetLoading:
		s.IsLoading = a.Loading

	case AddNotification:
		s.Notifications = append(copyNotifications(s.Notifications), a.Notification)

	case RemoveNotification:
		notifs := make([]models.Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != a.ID {
				notifs = append(notifs, n)
			}
		}
		s.Notifications = notifs
	}
	return s
}

func copyFiles(in []models.UploadedFile) []models.UploadedFile {
	out := make([]models.UploadedFile, len(in))
	copy(out, in)
	return out
}

func copyResults(in []models.ProcessingResult) []models.ProcessingResult {
	out := make([]models.ProcessingResult, len(in))
	copy(out, in)
	return out
}

func copyNotifications(in []models.Notification) []models.Notification {
	out := make([]models.Notification, len(in))
	copy(out, in)
	return out
}
