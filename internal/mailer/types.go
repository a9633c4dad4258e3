package mailer

import "strings"

// Roster column labels consumed from the batch-send spreadsheet
const (
	ColumnEmail          = "航司对接人邮箱"
	ColumnAgreementID    = "协议号"
	ColumnCC             = "抄送邮箱"
	ColumnSendSeparately = "是否单独发送"
)

// sendSeparatelyYes is the cell value that turns the flag on
const sendSeparatelyYes = "是"

// RecipientRow is one validated row of the roster spreadsheet
type RecipientRow struct {
	Email          string
	AgreementID    string
	CC             []string
	SendSeparately bool
	// Line is the spreadsheet row number, for operator diagnostics
	Line int
}

// CCSignature joins the cc list into the order-preserving group signature
func (r RecipientRow) CCSignature() string {
	return strings.Join(r.CC, ",")
}

// MatchGroup is the unit of one outbound email. Non-separate rows that
// share a recipient and cc signature accumulate their matched files into
// one group; a send-separately row yields one group per matched file.
type MatchGroup struct {
	Key            string
	CC             []string
	MatchedFiles   []string
	MatchFound     bool
	Row            RecipientRow
	SendSeparately bool
}

// CCDisplay renders the cc list for operator output
func (g *MatchGroup) CCDisplay() string {
	if len(g.CC) == 0 {
		return "无抄送"
	}
	return strings.Join(g.CC, ",")
}

// RecipientResult aggregates every group addressed to one recipient
type RecipientResult struct {
	Email        string
	FolderExists bool

	groupOrder []string
	groups     map[string]*MatchGroup
}

// Group returns the group under key, or nil
func (r *RecipientResult) Group(key string) *MatchGroup {
	return r.groups[key]
}

// Groups returns the recipient's groups in first-seen order
func (r *RecipientResult) Groups() []*MatchGroup {
	out := make([]*MatchGroup, 0, len(r.groupOrder))
	for _, k := range r.groupOrder {
		out = append(out, r.groups[k])
	}
	return out
}

func (r *RecipientResult) addGroup(g *MatchGroup) {
	if r.groups == nil {
		r.groups = make(map[string]*MatchGroup)
	}
	if _, exists := r.groups[g.Key]; !exists {
		r.groupOrder = append(r.groupOrder, g.Key)
		r.groups[g.Key] = g
	}
}

// Results maps recipient emails to their verification results,
// preserving first-seen order.
type Results struct {
	order   []string
	byEmail map[string]*RecipientResult
}

// Len returns the number of distinct recipients
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Get returns the result for one recipient email, or nil
func (r *Results) Get(email string) *RecipientResult {
	if r == nil {
		return nil
	}
	return r.byEmail[email]
}

// Recipients returns per-recipient results in first-seen order
func (r *Results) Recipients() []*RecipientResult {
	if r == nil {
		return nil
	}
	out := make([]*RecipientResult, 0, len(r.order))
	for _, email := range r.order {
		out = append(out, r.byEmail[email])
	}
	return out
}

func (r *Results) recipient(email string, folderExists bool) *RecipientResult {
	if r.byEmail == nil {
		r.byEmail = make(map[string]*RecipientResult)
	}
	res, ok := r.byEmail[email]
	if !ok {
		res = &RecipientResult{Email: email, FolderExists: folderExists}
		r.byEmail[email] = res
		r.order = append(r.order, email)
	}
	return res
}

// GroupCount returns the total number of groups across all recipients
func (r *Results) GroupCount() int {
	n := 0
	for _, res := range r.Recipients() {
		n += len(res.groupOrder)
	}
	return n
}

// MatchedCount returns the number of groups with at least one matched file
func (r *Results) MatchedCount() int {
	n := 0
	for _, res := range r.Recipients() {
		for _, g := range res.Groups() {
			if g.MatchFound {
				n++
			}
		}
	}
	return n
}
