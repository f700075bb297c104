package request

type ReconcileProjectRequest struct {
	ProjectName string `json:"project_name"`
}
