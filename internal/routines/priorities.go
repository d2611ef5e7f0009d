package routines

// Priority constants match the named priorities in §4.9: higher runs first.
const (
	priorityRest            = 100
	priorityCompleteNpcTask = 60
	priorityDepositBank     = 50
	priorityAutoEquip       = 45
	priorityAcceptNpcTask   = 15
	priorityGatherMaterials = 11
	priorityCraftMaterials  = 11
	priorityFightMaterials  = 11
	priorityCombatGather    = 10
	priorityRotation        = 5
)
