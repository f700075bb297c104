package result

type PartitionResult struct {
	Resolved   []int
	Unresolved []string
}

type InviteResult struct {
	Sent   []string
	Failed []string
}
