package realtime

// Result is a literal {"success": ...} or {"error": ...} reply.
type Result map[string]string

func success(msg string) Result { return Result{"success": msg} }
func failure(msg string) Result { return Result{"error": msg} }

// IsError reports whether r is an error reply.
func (r Result) IsError() bool {
	_, ok := r["error"]
	return ok
}

// DataTypeError answers payloads of the wrong JSON shape.
var DataTypeError = failure("Please check data type.")

// UnknownEvent answers events no handler is registered for.
var UnknownEvent = failure("Unknown event.")

// Users
var (
	UserAuthError = failure("Authentication error.")
)

// Committees
var (
	CommitteeDoesntExist     = failure("Committee doesn't exist.")
	CommitteeAddSuccess      = success("Committee succesfully created")
	CommitteeAddError        = failure("Committee couldn't be created, check data.")
	CommitteeAddExists       = failure("Committee already exists.")
	CommitteeEditSuccess     = success("Committee succesfully edited.")
	CommitteeEditError       = failure("Committee couldn't be edited, check data.")
	CommitteeUserDoesntExist = failure("User doesn't exist or is not admin.")
)

// Members
var (
	MemberComDoesntExist  = failure("Committee doesn't exist.")
	MemberAddSuccess      = success("User has been added to committee")
	MemberAddError        = failure("User couldn't be added to committee")
	MemberUserDoesntExist = failure("User or committee don't exist.")
	MemberRemoveSuccess   = success("Member has been removed from committee")
	MemberRemoveError     = failure("Member couldn't be removed from committee.")
	MemberPermError       = failure("User doesn't have permissions to remove members.")
	MemberEditSuccess     = success("Member role has been updated.")
	MemberRoleError       = failure("Role is not valid for this member.")
)

// Charges
var (
	ChargeAddSuccess         = success("Charge successfully created.")
	ChargeAddError           = failure("Charge couldnt be created, check data.")
	ChargeUsrChargeDontExist = failure("User or charge does not exist.")
	ChargeInvalidTitle       = failure("Charge title is invalid.")
	ChargeInvalidPriority    = failure("Invalid priority level.")
	ChargeEditError          = failure("Couldn't edit charge.")
	ChargeEditSuccess        = success("Charce successfully edited.")
	ChargePermError          = failure("User doesn't have permissions to complete this action.")

	ProgressNoteAddSuccess = success("Progress note successfully created.")
	ProgressNoteAddError   = failure("Progress note couldnt be created, check data.")
)

// Actions
var (
	ActionAddSuccess         = success("Action successfully created.")
	ActionAddError           = failure("Action couldnt be created, check data.")
	ActionEditSuccess        = success("Action successfully edited.")
	ActionEditError          = Result{"success": "Action couldnt be edited."}
	ActionUsrChargeDontExist = failure("User or Charge do not exist.")
	ActionUsrNotAuth         = failure("User is not authorized to create an Action")
	ActionDoesntExist        = failure("Action doesn't exist")
	ActionChargeDoesntExist  = failure("Charge doesn't exist")
)

// Notes
var (
	NoteAddSuccess        = success("Note has been added to action.")
	NoteAddError          = failure("Note couldn't be added to action.")
	NoteModifySuccess     = success("Note has modified")
	NoteModifyError       = failure("Note has not modified")
	NoteUsrNotAuth        = failure("User not authorized.")
	NoteUsrDoesntExist    = failure("User doesn't exist.")
	NoteActionDoesntExist = failure("Action doesn't exist.")
	NoteDoesntExist       = failure("Note doesn't exist.")
)

// Committee notes
var (
	CommitteeNoteAddSuccess           = success("Committee note successfully created.")
	CommitteeNoteAddError             = failure("Committee note couldnt be created, check data.")
	CommitteeNoteCommitteeDoesntExist = failure("Committee doesn't exist.")
	CommitteeNoteUsrNotAuth           = failure("User is not authorized to do that.")
)

// Minutes
var (
	MinuteInvalidData          = failure("Input data is not correct.")
	MinutePermError            = failure("User doesn't have permissions to complete this action.")
	MinuteUserDoesntExist      = failure("User doesn't exist.")
	MinuteCommitteeDoesntExist = failure("Committee doesn't exist.")
	MinuteAddSuccess           = success("Minute has been added to committee.")
	MinuteAddError             = failure("Minute couldn't be added to committee.")
	MinuteDoesntExist          = failure("Minute doesn't exist.")
	MinuteEditSuccess          = success("Minute has been edited.")
	MinuteEditError            = failure("Minute couldn't be edited.")
	MinuteDeleteSuccess        = success("Minute has been deleted.")
	MinuteDeleteError          = failure("Minute couldn't be deleted.")
)

// Invitations
var (
	RequestSent       = success("Request to join has been sent.")
	InviteSent        = success("Invitation has been sent.")
	InviteError       = failure("Invitation couldn't be sent.")
	RequestError      = failure("Request couldn't be sent.")
	InviteExists      = failure("User has already been invited to this committee.")
	InviteDoesntExist = failure("Invitation doesn't exist.")
	InviteAccept      = success("Invitation has been accepted.")
	InviteDeny        = failure("Invitation has been denied.")
	RequestExists     = failure("User has already requested to join committee.")
	UserIsPart        = failure("User is already part of this committee.")
	NotAuthenticated  = failure("User is not authenticated")
	InvalidStatus     = failure("Please insert a valid status.")
	IncorrectPerms    = failure("Incorrect user permissions.")
)

// Notifications
var (
	NotificationViewed     = success("Notification set to viewed.")
	NotificationNotUpdated = failure("Notification not updated correctly.")
	NotificationDeleted    = success("Notification deleted.")
	NotificationNotDeleted = failure("Notification was not deleted.")
)
