package dto

type ListIssuesDTO struct {
	Label string
	State string
}

type AddLabelDTO struct {
	IssueNumber int
	Label       string
}
