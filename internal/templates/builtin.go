package templates

// Builtin templates, registered before any on-disk templates. These are
// declarative configuration: the engine never interprets their content,
// only placement and styling.
var builtinTemplates = []string{
	etgBusinessCase,
	canexportClaimSummary,
	grantReviewScorecard,
}

const etgBusinessCase = `
name: ETG Business Case
program: etg
docType: business-case
defaults:
  training_provider: "(provider not specified)"
  employee_count: "1"
sections:
  - type: header
    text: Business Case
  - type: paragraph
    text: "Prepared for **{{applicant_name}}** on {{prepared_date}}."
  - type: divider
  - type: subheader
    text: Training Overview
  - type: paragraph
    text: "{{applicant_name}} proposes to train {{employee_count}} employee(s) through *{{training_provider}}*."
  - type: list
    items:
      - "Training course: {{course_name}}"
      - "Start date: {{start_date}}"
      - "Total cost: {{total_cost}}"
  - type: subheader
    text: Eligibility Questions
  - type: question
    number: 1
    text: Does the training address a clear skills gap?
    followUps:
      - Describe the gap and how it was identified.
    answer: yes-no
  - type: question
    number: 2
    text: Will the trainee remain employed after training?
    answer: yes-no-partial
  - type: subheader
    text: Budget
  - type: table
    headers: [Item, Amount]
    rows:
      - [Tuition, "{{tuition_cost}}"]
      - [Travel, "{{travel_cost}}"]
      - [Total, "{{total_cost}}"]
  - type: callout
    style: warning
    text: Claims submitted after the training end date are not reimbursable.
`

const canexportClaimSummary = `
name: CanExport Claim Summary
program: canexport
docType: claim-summary
sections:
  - type: header
    text: Claim Summary
  - type: evaluation-summary
    fields:
      - label: Applicant
        value: "{{applicant_name}}"
      - label: Project
        value: "{{project_title}}"
      - label: Claim period
        value: "{{claim_period}}"
      - label: Amount claimed
        value: "{{claim_amount}}"
  - type: subheader
    text: Expense Categories
  - type: table
    headers: [Category, Claimed, Approved]
    rows:
      - [Travel, "{{travel_claimed}}", ""]
      - [Marketing, "{{marketing_claimed}}", ""]
      - [Interpretation, "{{interpretation_claimed}}", ""]
  - type: checklist
    items:
      - Receipts attached for every expense line
      - Expenses fall within the approved project period
      - No expense claimed under another program
  - type: callout
    style: info
    text: Approved amounts are filled in by the program officer during review.
`

const grantReviewScorecard = `
name: Grant Review Scorecard
program: review
docType: scorecard
sections:
  - type: header
    text: "Review: {{project_title}}"
  - type: scoring-table
    criteria:
      - name: Strategic fit
        weight: 30%
        score: "{{fit_score}}"
        notes: "{{fit_notes}}"
      - name: Budget realism
        weight: 30%
        score: "{{budget_score}}"
        notes: "{{budget_notes}}"
      - name: Outcome plan
        weight: 40%
        score: "{{outcome_score}}"
        notes: "{{outcome_notes}}"
  - type: priority-scale
    levels:
      - name: High
        color: "#d93025"
        description: fund this cycle
      - name: Medium
        color: "#f9ab00"
        description: fund if budget allows
      - name: Low
        color: "#9aa0a6"
        description: decline with feedback
  - type: evaluation-summary
    fields:
      - label: Recommendation
        value: "{{recommendation}}"
      - label: Reviewer
        value: "{{reviewer_name}}"
`
