package conversation

import "fmt"

// Step is the position of a chat inside a flow. StepIdle means no session.
type Step uint8

const (
	StepIdle Step = iota

	// self-service flow
	StepPhone
	StepFirstName
	StepLastName
	StepPassport
	StepVisaExpiry

	// admin enters a record on behalf of someone else
	StepAdminPhone
	StepAdminFirstName
	StepAdminLastName
	StepAdminPassport
	StepAdminVisaExpiry

	StepAddAdminID
	StepAddAdminUsername
	StepRemoveAdminID

	// interactive report session holding cached data
	StepViewWeeks

	stepCount
)

var stepNames = [stepCount]string{
	StepIdle:             "idle",
	StepPhone:            "phone",
	StepFirstName:        "firstName",
	StepLastName:         "lastName",
	StepPassport:         "passport",
	StepVisaExpiry:       "visaExpiry",
	StepAdminPhone:       "admin_phone",
	StepAdminFirstName:   "admin_firstName",
	StepAdminLastName:    "admin_lastName",
	StepAdminPassport:    "admin_passport",
	StepAdminVisaExpiry:  "admin_visaExpiry",
	StepAddAdminID:       "add_admin_id",
	StepAddAdminUsername: "add_admin_username",
	StepRemoveAdminID:    "remove_admin_id",
	StepViewWeeks:        "view_weeks",
}

func (s Step) String() string {
	if s < stepCount {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", uint8(s))
}

// Steps lists every step a session can be in.
func Steps() []Step {
	out := make([]Step, 0, stepCount-1)
	for s := StepIdle + 1; s < stepCount; s++ {
		out = append(out, s)
	}
	return out
}
