package domain

// Requester is the authenticated caller as seen by the access policy.
type Requester struct {
	UserID    string
	Role      string
	CompanyID string
}

func (r Requester) IsEmployer() bool {
	return r.Role == RoleEmployer
}

func (r Requester) IsJobseeker() bool {
	return r.Role == RoleJobseeker
}

// Scope is the job scope an employer's listings are restricted to.
func (r Requester) Scope() JobScope {
	if r.CompanyID != "" {
		return JobScope{CompanyID: r.CompanyID}
	}
	return JobScope{PostedBy: r.UserID}
}

// CanManageJob is the ownership rule for every job and application mutation.
// Either claim grants access: a matching company (both sides non-empty) or
// being the user who posted the job. Jobs created before company linkage
// only carry PostedBy, so neither check may be dropped.
//
// Role gating is separate and happens before this is consulted.
func CanManageJob(r Requester, job *Job) bool {
	if job == nil {
		return false
	}
	if job.CompanyID != "" && r.CompanyID != "" && job.CompanyID == r.CompanyID {
		return true
	}
	return job.PostedBy != "" && job.PostedBy == r.UserID
}
