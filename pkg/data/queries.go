/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package data

// language=sql
var RunQuery = `
select id
     , run_uuid
     , recorded
     , origin
     , mode
     , width
     , height
     , speed
     , max_ticks
     , ticks
     , halted
from scenario_runs
where id = ?
;
`

// language=sql
var EntitiesQuery = `
select entity_id
     , kind
     , start_x
     , start_y
     , target_x
     , target_y
     , final_x
     , final_y
     , moving
     , ticks
from entities
where scenario_run_id = ?
order by entity_id asc
;
`

// language=sql
var TrajectoryQuery = `
select tick
     , x
     , y
     , moving
     , result
from observations
where scenario_run_id = ?
  and entity_id = ?
order by tick asc
;
`

// language=sql
var ArrivalsPerTickQuery = `
select tick
     , count(1) as arrivals
from observations
where result = 'arrived'
  and scenario_run_id = ?
group by tick
order by tick asc
;
`
