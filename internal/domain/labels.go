package domain

// UI display labels, kept apart from the persisted enum values on purpose:
// the strings below may change with the product copy, the enum never does.

var ProfileStatusLabels = map[ProfileStatus]string{
	ProfileDraft:     "Brouillon",
	ProfileSubmitted: "Soumis",
	ProfileInReview:  "En cours de validation",
	ProfileValidated: "Validé",
	ProfileRejected:  "Refusé",
	ProfileArchived:  "Archivé",
}

var PostingStatusLabels = map[PostingStatus]string{
	PostingDraft:     "Brouillon",
	PostingPublished: "Publiée",
	PostingClosed:    "Clôturée",
	PostingArchived:  "Archivée",
}
