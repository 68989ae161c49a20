package dto

// Response is the comment API envelope. Every endpoint answers with a
// boolean status plus whichever payload fields apply.
type Response struct {
	Status        bool              `json:"status"`
	Message       string            `json:"message,omitempty"`
	Comment       *CommentResponse  `json:"comment,omitempty"`
	Comments      []CommentResponse `json:"comments,omitempty"`
	Task          *TaskResponse     `json:"task,omitempty"`
	User          *UserResponse     `json:"user,omitempty"`
	CurrentPage   int               `json:"currentPage,omitempty"`
	TotalPages    int               `json:"totalPages,omitempty"`
	TotalComments int64             `json:"totalComments,omitempty"`
}

func Success(message string) Response {
	return Response{Status: true, Message: message}
}

func Fail(message string) Response {
	return Response{Status: false, Message: message}
}
